package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/pagetrail/internal/util"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Params configures a search.
type Params struct {
	Query  string // Free text; empty matches everything
	Status string // Exact lifecycle status filter
	Tag    string // Tag filter, compared case-insensitively
	Limit  int
	Offset int
}

// Result holds search hits and facets.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"tookMs"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets"`
}

// Hit is a single matching entry.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Authors    string            `json:"authors,omitempty"`
	Status     string            `json:"status"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts over the matching entries.
type Facets struct {
	Statuses []FacetCount `json:"statuses,omitempty"`
	Tags     []FacetCount `json:"tags,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	if strings.TrimSpace(params.Query) == "" {
		req.SortBy([]string{"-date_added", "id"})
	} else {
		req.SortBy([]string{"-_score", "-date_added"})
	}
	req.Fields = []string{"title", "authors", "status"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")
	req.Highlight.AddField("authors")
	req.AddFacet("statuses", bleve.NewFacetRequest("status", 5))
	req.AddFacet("tags", bleve.NewFacetRequest("tags", 20))

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := h.Fields["authors"].(string); ok {
			hit.Authors = v
		}
		if v, ok := h.Fields["status"].(string); ok {
			hit.Status = v
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	out.Facets.Statuses = facetCounts(res.Facets["statuses"])
	out.Facets.Tags = facetCounts(res.Facets["tags"])
	return out, nil
}

func facetCounts(fr *bsearch.FacetResult) []FacetCount {
	if fr == nil || fr.Terms == nil {
		return nil
	}
	terms := fr.Terms.Terms()
	out := make([]FacetCount, 0, len(terms))
	for _, t := range terms {
		out = append(out, FacetCount{Value: t.Term, Count: t.Count})
	}
	return out
}

// buildQuery matches the text against titles (boosted), authors and the free
// text fields, then narrows by status and tag.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(text)
		authorMatch.SetField("authors")
		authorMatch.SetBoost(2.0)

		textQueries := []query.Query{titleMatch, authorMatch}
		for _, field := range []string{"description", "notes", "categories"} {
			m := bleve.NewMatchQuery(text)
			m.SetField(field)
			m.SetBoost(0.7)
			textQueries = append(textQueries, m)
		}

		// Typo tolerance on titles
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		if len(text) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(text))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Status != "" {
		tq := bleve.NewTermQuery(params.Status)
		tq.SetField("status")
		queries = append(queries, tq)
	}

	if key := util.TagKey(params.Tag); key != "" {
		tq := bleve.NewTermQuery(key)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
