package blog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
)

func TestFsRepo_PutGetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := blog.NewFsRepo(t.TempDir())

	fm := &blog.FrontMatter{
		Title:   "Deep work routines",
		Date:    "2024-04-15",
		Summary: "Blocks beat sprints",
		Tags:    []string{"focus"},
	}
	rev, err := r.Put(ctx, "deep-work-routines", fm, "Start small.\n", "")
	require.NoError(t, err)
	require.NotEmpty(t, rev)

	post, err := r.Get(ctx, "deep-work-routines")
	require.NoError(t, err)
	require.Equal(t, *fm, post.FrontMatter)
	require.Equal(t, "Start small.\n", post.Body)
	require.Equal(t, rev, post.Revision)
}

func TestFsRepo_ListFiltersToContentFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	r := blog.NewFsRepo(dir)

	fm := &blog.FrontMatter{Title: "t", Date: "2024-01-01"}
	_, err := r.Put(ctx, "kept", fm, "", "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.md"), 0o755))

	slugs, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"kept"}, slugs)
}

func TestFsRepo_ListMissingRootIsEmpty(t *testing.T) {
	t.Parallel()
	r := blog.NewFsRepo(filepath.Join(t.TempDir(), "does-not-exist"))

	slugs, err := r.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, slugs)
}

func TestFsRepo_GetMissingReturnsNotFound(t *testing.T) {
	t.Parallel()
	r := blog.NewFsRepo(t.TempDir())

	_, err := r.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, blog.ErrNotFound)
}

func TestFsRepo_InvalidSlugRejectedBeforeIO(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "never-created")
	r := blog.NewFsRepo(dir)

	_, err := r.Get(ctx, "../../etc/passwd")
	require.ErrorIs(t, err, blog.ErrInvalidSlug)

	_, err = r.Put(ctx, "a/b", &blog.FrontMatter{Title: "t", Date: "2024-01-01"}, "", "")
	require.ErrorIs(t, err, blog.ErrInvalidSlug)

	// the rejected Put must not have touched the filesystem
	_, statErr := os.Stat(dir)
	require.True(t, os.IsNotExist(statErr))
}

func TestFsRepo_PutConflictOnStaleRevision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := blog.NewFsRepo(t.TempDir())

	fm := &blog.FrontMatter{Title: "t", Date: "2024-01-01"}
	rev, err := r.Put(ctx, "post", fm, "v1\n", "")
	require.NoError(t, err)

	_, err = r.Put(ctx, "post", fm, "v2\n", "")
	require.ErrorIs(t, err, blog.ErrConflict)

	rev2, err := r.Put(ctx, "post", fm, "v2\n", rev)
	require.NoError(t, err)
	require.NotEqual(t, rev, rev2)
}

func TestFsRepo_MalformedFileFailsParse(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := blog.NewFsRepo(dir)

	raw := []byte("---\ntitle: [broken\n---\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), raw, 0o644))

	_, err := r.Get(context.Background(), "bad")
	require.ErrorIs(t, err, blog.ErrParse)

	var pe *blog.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "bad", pe.Slug)
}

func TestFsRepo_PutLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	r := blog.NewFsRepo(dir)

	_, err := r.Put(ctx, "post", &blog.FrontMatter{Title: "t", Date: "2024-01-01"}, "body\n", "")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "post.md", entries[0].Name())
}

func TestContentRevision_MatchesGitBlobHash(t *testing.T) {
	t.Parallel()

	// printf 'hello\n' | git hash-object --stdin
	require.Equal(t,
		"ce013625030ba8dba906f756967f9e9ca394464a",
		blog.ContentRevision([]byte("hello\n")))
}
