package blog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FsRepo implements Repository over a local directory containing one
// "{slug}.md" file per post. Writes go through a temp file plus rename so a
// reader never observes a half-written document.
type FsRepo struct {
	// Root is the content directory, e.g. "data/blog".
	Root string
}

// NewFsRepo constructs a filesystem repository rooted at dir.
func NewFsRepo(dir string) *FsRepo {
	return &FsRepo{Root: dir}
}

func (f *FsRepo) Name() string { return "fs" }

// List enumerates content files under Root, filters to the recognized
// extension, and strips it. A missing root directory is an empty store, not
// an error.
func (f *FsRepo) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewBackendError("fs", "List", 0, err)
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ContentExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), ContentExt))
	}
	return slugs, nil
}

func (f *FsRepo) Get(ctx context.Context, slug string) (*Post, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.docPath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(slug)
		}
		return nil, NewBackendError("fs", "Get", 0, err)
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

func (f *FsRepo) Put(ctx context.Context, slug string, fm *FrontMatter, body string, expectedRev string) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}

	data, err := EncodeDocument(fm, body)
	if err != nil {
		return "", err
	}

	path := f.docPath(slug)

	currentRev := ""
	if current, err := os.ReadFile(path); err == nil {
		currentRev = ContentRevision(current)
	} else if !os.IsNotExist(err) {
		return "", NewBackendError("fs", "Put", 0, err)
	}
	if currentRev != expectedRev {
		return "", &ConflictError{Slug: slug, Expected: expectedRev, Actual: currentRev}
	}

	if err := os.MkdirAll(f.Root, 0o755); err != nil {
		return "", NewBackendError("fs", "Put", 0, err)
	}

	tmp, err := os.CreateTemp(f.Root, "."+slug+".tmp-*")
	if err != nil {
		return "", NewBackendError("fs", "Put", 0, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", NewBackendError("fs", "Put", 0, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", NewBackendError("fs", "Put", 0, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", NewBackendError("fs", "Put", 0, err)
	}

	return ContentRevision(data), nil
}

func (f *FsRepo) docPath(slug string) string {
	return filepath.Join(f.Root, fmt.Sprintf("%s%s", slug, ContentExt))
}

var _ Repository = (*FsRepo)(nil)
