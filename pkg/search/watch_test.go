package search_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
)

func TestWatch_IndexesAndRemovesChangedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := blog.NewFsRepo(dir)
	ix := openIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.Watch(ctx, repo, dir) }()

	fm := &blog.FrontMatter{Title: "Watched post", Date: "2024-01-01"}
	raw, err := blog.EncodeDocument(fm, "ephemeral indexed words\n")
	require.NoError(t, err)
	path := filepath.Join(dir, "watched-post.md")

	// rewrite on each poll: the first write can race the watcher starting
	// up, later ones are guaranteed to be seen. Poll slower than the
	// debounce window so the drain actually fires between writes.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return false
		}
		hits, err := ix.Query("ephemeral", 10, false)
		return err == nil && len(hits) == 1
	}, 15*time.Second, time.Second, "watcher should index the new file")

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		hits, err := ix.Query("ephemeral", 10, false)
		return err == nil && len(hits) == 0
	}, 15*time.Second, 250*time.Millisecond, "watcher should drop the removed file")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
