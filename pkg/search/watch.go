package search

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmleung/studylog/pkg/blog"
)

// watchDebounce coalesces the event bursts editors produce on save.
const watchDebounce = 300 * time.Millisecond

// Watch keeps the index current while the local filesystem backend is
// active: it watches the content directory, reindexes a post shortly after
// its file is created or written, and drops it from the index when the file
// is removed or renamed away. Blocks until ctx is done.
func (ix *Index) Watch(ctx context.Context, repo blog.Repository, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, blog.ContentExt) || strings.HasPrefix(name, ".") {
				continue
			}
			pending[strings.TrimSuffix(name, blog.ContentExt)] = struct{}{}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			for slug := range pending {
				delete(pending, slug)
				post, err := repo.Get(ctx, slug)
				if blog.IsNotFound(err) {
					// file is gone; drop the document from the index
					if err := ix.Remove(slug); err != nil {
						ix.logger.Warn("watch: remove failed",
							slog.String("slug", slug),
							slog.String("error", err.Error()))
						continue
					}
					ix.logger.Info("watch: removed", slog.String("slug", slug))
					continue
				}
				if err != nil {
					ix.logger.Warn("watch: skipping changed post",
						slog.String("slug", slug),
						slog.String("error", err.Error()))
					continue
				}
				if err := ix.IndexPost(post); err != nil {
					ix.logger.Warn("watch: index failed",
						slog.String("slug", slug),
						slog.String("error", err.Error()))
					continue
				}
				ix.logger.Info("watch: reindexed", slog.String("slug", slug))
			}
		}
	}
}
