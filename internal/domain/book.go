// Package domain contains the core entities of the pagetrail reading library.
package domain

// Book is a normalized catalog record. It is never mutated once fetched.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Description   string   `json:"description,omitempty"`
	CoverImage    string   `json:"coverImage,omitempty"`    // Remote URL
	PublishedDate string   `json:"publishedDate,omitempty"` // Partial date: "2004", "2004-03" or "2004-03-17"
	AverageRating float64  `json:"averageRating,omitempty"` // External rating, 0-5
	PageCount     int      `json:"pageCount,omitempty"`     // 0 when unknown
	Categories    []string `json:"categories,omitempty"`
}

// HasPageCount reports whether the page count is known.
func (b *Book) HasPageCount() bool {
	return b.PageCount > 0
}

// Clone returns a deep copy of the book.
func (b Book) Clone() Book {
	b.Authors = cloneStrings(b.Authors)
	b.Categories = cloneStrings(b.Categories)
	return b
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
