// Package search maintains a persistent full-text index over post bodies.
// The listing layer's tag/title matching stays authoritative for the blog
// index pages; this index serves the free-text search page, where fuzzy and
// phrase queries over the whole body are wanted.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jmleung/studylog/pkg/blog"
	"github.com/jmleung/studylog/pkg/log"
)

// Index wraps a bleve index plus the sqlite sync state that makes reindexing
// incremental.
type Index struct {
	idx    bleve.Index
	store  *Store
	logger *slog.Logger
}

// IndexedPost is the document shape stored in the bleve index.
type IndexedPost struct {
	Slug    string
	Title   string
	Summary string
	Body    string
	Tags    []string
	Date    string
	Draft   bool
}

// Result is one search hit with highlighted fragments.
type Result struct {
	Slug      string              `json:"slug"`
	Title     string              `json:"title"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Stats summarizes one reindex run.
type Stats struct {
	Total    int
	Indexed  int
	Skipped  int
	Degraded int
	Duration time.Duration
}

// Open opens or creates the bleve index at indexPath and the sync-state
// database at statePath. A nil logger discards log events.
func Open(indexPath, statePath string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	idx, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	store, err := OpenStore(statePath)
	if err != nil {
		idx.Close()
		return nil, err
	}

	return &Index{idx: idx, store: store, logger: logger}, nil
}

// buildIndexMapping boosts title matches over body matches.
func buildIndexMapping() mapping.IndexMapping {
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Slug", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Title", titleField)
	docMapping.AddFieldMappingsAt("Summary", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Body", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Tags", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Draft", bleve.NewBooleanFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index and the state database.
func (ix *Index) Close() error {
	storeErr := ix.store.Close()
	if err := ix.idx.Close(); err != nil {
		return err
	}
	return storeErr
}

// IndexPost adds or replaces one post in the index and records its revision.
func (ix *Index) IndexPost(p *blog.Post) error {
	doc := &IndexedPost{
		Slug:    p.Slug,
		Title:   p.FrontMatter.Title,
		Summary: p.FrontMatter.Summary,
		Body:    p.Body,
		Tags:    p.FrontMatter.Tags,
		Date:    p.FrontMatter.Date,
		Draft:   p.FrontMatter.Draft,
	}
	if err := ix.idx.Index(p.Slug, doc); err != nil {
		return fmt.Errorf("index %s: %w", p.Slug, err)
	}
	return ix.store.SetRevision(p.Slug, p.Revision)
}

// Remove deletes a post from the index and forgets its revision.
func (ix *Index) Remove(slug string) error {
	if err := ix.idx.Delete(slug); err != nil {
		return fmt.Errorf("delete %s: %w", slug, err)
	}
	return ix.store.DeleteRevision(slug)
}

// Query runs a query-string search (quotes, boolean operators, fuzzy ~) with
// HTML highlighting and returns up to limit hits. Unless includeDrafts is
// set, draft posts are excluded from the results; only admin-side callers
// may pass true.
func (ix *Index) Query(queryStr string, limit int, includeDrafts bool) ([]*Result, error) {
	var q query.Query = bleve.NewQueryStringQuery(strings.TrimSpace(queryStr))
	if !includeDrafts {
		published := bleve.NewBoolFieldQuery(false)
		published.SetField("Draft")
		q = bleve.NewConjunctionQuery(q, published)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Title"}

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var results []*Result
	for _, hit := range res.Hits {
		r := &Result{Slug: hit.ID, Score: hit.Score, Fragments: hit.Fragments}
		if title, ok := hit.Fields["Title"].(string); ok {
			r.Title = title
		}
		results = append(results, r)
	}
	return results, nil
}

// Count returns the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	return ix.idx.DocCount()
}

// Reindex walks the repository and indexes every post whose revision changed
// since the last run. Parse failures are logged and skipped; they never abort
// the run.
func (ix *Index) Reindex(ctx context.Context, repo blog.Repository) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	slugs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	stats.Total = len(slugs)

	batch := ix.idx.NewBatch()
	updated := make(map[string]string)
	for _, slug := range slugs {
		post, err := repo.Get(ctx, slug)
		if err != nil {
			ix.logger.Warn("reindex: skipping post",
				slog.String("slug", slug),
				slog.String("error", err.Error()))
			stats.Degraded++
			continue
		}

		known, err := ix.store.Revision(slug)
		if err != nil {
			return nil, err
		}
		if known != "" && known == post.Revision {
			stats.Skipped++
			continue
		}

		doc := &IndexedPost{
			Slug:    post.Slug,
			Title:   post.FrontMatter.Title,
			Summary: post.FrontMatter.Summary,
			Body:    post.Body,
			Tags:    post.FrontMatter.Tags,
			Date:    post.FrontMatter.Date,
			Draft:   post.FrontMatter.Draft,
		}
		if err := batch.Index(slug, doc); err != nil {
			return nil, fmt.Errorf("batch index %s: %w", slug, err)
		}
		updated[slug] = post.Revision
		stats.Indexed++
	}

	if err := ix.idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	// revisions are recorded only once the batch is committed; a failed
	// commit leaves every post eligible for the next run
	for slug, rev := range updated {
		if err := ix.store.SetRevision(slug, rev); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(start)
	ix.logger.Info("reindex complete",
		slog.Int("total", stats.Total),
		slog.Int("indexed", stats.Indexed),
		slog.Int("skipped", stats.Skipped),
		slog.Int("degraded", stats.Degraded),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}
