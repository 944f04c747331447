package catalog

import (
	"strings"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/util"
)

// untitled replaces a missing title.
const untitled = "Untitled"

// Raw API response types (internal)

type volumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle"`
	Authors       []string      `json:"authors"`
	Description   string        `json:"description"`
	PublishedDate string        `json:"publishedDate"`
	AverageRating float64       `json:"averageRating"`
	PageCount     int           `json:"pageCount"`
	Categories    []string      `json:"categories"`
	ImageLinks    rawImageLinks `json:"imageLinks"`
}

type rawImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
}

// toBook normalizes a volume. Volumes without an id are skipped.
func (v *rawVolume) toBook() (domain.Book, bool) {
	id := strings.TrimSpace(v.ID)
	if id == "" {
		return domain.Book{}, false
	}
	info := &v.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = untitled
	}

	pages := info.PageCount
	if pages < 0 {
		pages = 0
	}

	rating := info.AverageRating
	switch {
	case rating < 0:
		rating = 0
	case rating > 5:
		rating = 5
	}

	return domain.Book{
		ID:            id,
		Title:         title,
		Authors:       cleanList(info.Authors),
		Description:   util.HTMLToMarkdown(strings.TrimSpace(info.Description)),
		CoverImage:    selectCoverURL(info.ImageLinks),
		PublishedDate: strings.TrimSpace(info.PublishedDate),
		AverageRating: rating,
		PageCount:     pages,
		Categories:    cleanList(info.Categories),
	}, true
}

// selectCoverURL picks the largest available cover and forces https.
func selectCoverURL(links rawImageLinks) string {
	for _, u := range []string{links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
		if u == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(u, "http://"); ok {
			u = "https://" + rest
		}
		return strings.ReplaceAll(u, "&edge=curl", "")
	}
	return ""
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
