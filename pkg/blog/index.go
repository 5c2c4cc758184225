package blog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jmleung/studylog/pkg/log"
)

// fetchConcurrency bounds the per-listing fan-out when fetching and parsing
// stored documents.
const fetchConcurrency = 8

// Index produces filtered, sorted views over the full post set for the
// public blog and the admin list, and answers tag/keyword searches. It holds
// no state of its own: every call reads through the repository, so results
// are current as of the call.
type Index struct {
	repo   Repository
	logger *slog.Logger
}

// NewIndex constructs an index over repo. A nil logger falls back to the
// discard logger.
func NewIndex(repo Repository, logger *slog.Logger) *Index {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Index{repo: repo, logger: logger}
}

// ListPublic returns all non-draft posts sorted by date descending. Ties keep
// the repository's listing order.
func (ix *Index) ListPublic(ctx context.Context) ([]PostSummary, error) {
	all, err := ix.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	public := all[:0]
	for _, s := range all {
		if !s.Draft {
			public = append(public, s)
		}
	}
	return public, nil
}

// ListAdmin returns every post, drafts included, same sort as ListPublic.
func (ix *Index) ListAdmin(ctx context.Context) ([]PostSummary, error) {
	return ix.fetchAll(ctx)
}

// Search filters posts by query. A query starting with '#' is a tag lookup:
// the remainder must match a tag exactly (case-insensitive). Anything else is
// free text matched as a case-insensitive substring of the title or of any
// tag. An empty query returns the unfiltered listing.
func (ix *Index) Search(ctx context.Context, query string, includeDrafts bool) ([]PostSummary, error) {
	var all []PostSummary
	var err error
	if includeDrafts {
		all, err = ix.ListAdmin(ctx)
	} else {
		all, err = ix.ListPublic(ctx)
	}
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	if tag, ok := strings.CutPrefix(query, "#"); ok {
		tag = strings.TrimSpace(tag)
		matched := all[:0]
		for _, s := range all {
			if hasTagExact(s.Tags, tag) {
				matched = append(matched, s)
			}
		}
		return matched, nil
	}

	q := strings.ToLower(query)
	matched := all[:0]
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Title), q) || hasTagSubstring(s.Tags, q) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func hasTagExact(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func hasTagSubstring(tags []string, lowered string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), lowered) {
			return true
		}
	}
	return false
}

// fetchAll lists the store and fetches every document concurrently. Documents
// are independent and read-only, so completion order does not matter; the
// result is re-sorted deterministically afterwards. A document that fails to
// fetch or parse degrades to a slug-only entry instead of failing the whole
// listing.
func (ix *Index) fetchAll(ctx context.Context) ([]PostSummary, error) {
	slugs, err := ix.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, len(slugs))
	sem := make(chan struct{}, fetchConcurrency)
	var wg sync.WaitGroup
	for i, slug := range slugs {
		wg.Add(1)
		go func(i int, slug string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			post, err := ix.repo.Get(ctx, slug)
			if err != nil {
				ix.logger.Warn("listing: degraded entry",
					slog.String("slug", slug),
					slog.String("error", err.Error()))
				summaries[i] = DegradedSummary(slug)
				return
			}
			summaries[i] = post.Summary()
		}(i, slug)
	}
	wg.Wait()

	// date descending; stable so equal dates keep listing order
	sort.SliceStable(summaries, func(a, b int) bool {
		return summaries[a].Date > summaries[b].Date
	})
	return summaries, nil
}
