package blog

import (
	"context"
	"errors"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repository intended for tests
// and lightweight tooling that doesn't require persistent storage.
//
// Documents are stored as raw encoded bytes, exactly as a file backend would
// hold them, so Get exercises the same decode path. All access is guarded by
// an internal RWMutex; the type is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// Mutations counts successful Put calls. Tests use it to assert the
	// publish workflow performs exactly one mutation per call.
	mutations int
}

// NewMemoryRepo constructs a ready-to-use in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string][]byte)}
}

func (r *MemoryRepo) Name() string { return "memory" }

// SeedRaw stores raw document bytes verbatim, bypassing encoding. It exists
// so tests can stage malformed documents.
func (r *MemoryRepo) SeedRaw(slug string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[slug] = append([]byte(nil), raw...)
}

// Mutations returns the number of successful Put calls so far.
func (r *MemoryRepo) Mutations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mutations
}

// List returns all stored slugs in unspecified order.
func (r *MemoryRepo) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, 0, len(r.docs))
	for slug := range r.docs {
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

func (r *MemoryRepo) Get(ctx context.Context, slug string) (*Post, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	r.mu.RLock()
	raw, ok := r.docs[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, NewNotFoundError(slug)
	}

	fm, body, err := DecodeDocument(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Slug: slug, Msg: pe.Msg}
		}
		return nil, err
	}

	return &Post{
		Slug:        slug,
		FrontMatter: *fm,
		Body:        body,
		Revision:    ContentRevision(raw),
	}, nil
}

func (r *MemoryRepo) Put(ctx context.Context, slug string, fm *FrontMatter, body string, expectedRev string) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}

	data, err := EncodeDocument(fm, body)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.docs[slug]
	currentRev := ""
	if exists {
		currentRev = ContentRevision(current)
	}
	if currentRev != expectedRev {
		return "", &ConflictError{Slug: slug, Expected: expectedRev, Actual: currentRev}
	}

	r.docs[slug] = data
	r.mutations++
	return ContentRevision(data), nil
}

var _ Repository = (*MemoryRepo)(nil)
