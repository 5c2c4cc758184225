package blog

import (
	"context"
	"crypto/sha1"
	"fmt"
)

// ContentExt is the recognized extension for stored post documents.
const ContentExt = ".md"

// Repository is the storage backend contract for posts. Implementations hide
// whether documents live on the local filesystem or in a remote Git-hosted
// content repository; the rest of the system must not care which backend is
// active. Methods are context-aware and return the typed errors defined in
// errors.go so callers can rely on errors.Is / errors.As.
type Repository interface {
	// Name returns a short, human-friendly name for the backend.
	Name() string

	// List enumerates the slugs of all content files in the store. No
	// ordering is guaranteed at this layer; sorting belongs to the Index.
	List(ctx context.Context) ([]string, error)

	// Get reads and parses the document for slug. It fails with a typed
	// InvalidSlugError before any I/O when the slug is unsafe, with
	// ErrNotFound when no document matches, and with ErrParse when the
	// stored front matter block is malformed.
	Get(ctx context.Context, slug string) (*Post, error)

	// Put writes (creates or overwrites) the whole document for slug and
	// returns the new revision token. An empty expectedRev means creation;
	// a non-empty one means update of exactly that stored revision. A
	// mismatch surfaces as ErrConflict. The write is atomic from the
	// caller's perspective.
	Put(ctx context.Context, slug string, fm *FrontMatter, body string, expectedRev string) (string, error)
}

// ContentRevision computes the revision token for a stored document. It uses
// the git blob hash construction so the local backends agree with the sha the
// remote content API reports for the same bytes.
func ContentRevision(data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(data))
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
