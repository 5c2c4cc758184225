package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/search"
	"github.com/jmleung/studylog/pkg/web"
)

func NewServeCmd(deps *Deps) *cobra.Command {
	var (
		addr     string
		noSearch bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the blog API and pages",
		Long: `serve runs the HTTP server: public listing, search, and rendered
post pages, plus the basic-auth admin API. Unless --no-search is given it also
opens the full-text index, and with --watch it keeps the index in sync with a
local content directory as files change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			if err := cfg.ValidateAdmin(); err != nil {
				return err
			}

			repo, err := deps.Repo()
			if err != nil {
				return err
			}

			var fulltext *search.Index
			if !noSearch {
				fulltext, err = deps.OpenSearch()
				if err != nil {
					return err
				}
				defer fulltext.Close()
			}

			ctx := cmd.Context()
			if watch {
				if fulltext == nil {
					return errors.New("--watch requires the search index")
				}
				if !cfg.UsesLocalStore() {
					return errors.New("--watch requires a local content directory (BLOG_DIR)")
				}
				go func() {
					if err := fulltext.Watch(ctx, repo, cfg.BlogDir); err != nil {
						deps.Logger.Error("content watch stopped", slog.String("error", err.Error()))
					}
				}()
			}

			if addr == "" {
				addr = cfg.ListenAddr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           web.NewServer(repo, fulltext, cfg.AdminUser, cfg.AdminPass, deps.Logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				deps.Logger.Info("listening",
					slog.String("addr", addr),
					slog.String("backend", repo.Name()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				return ctx.Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to LISTEN_ADDR)")
	cmd.Flags().BoolVar(&noSearch, "no-search", false, "disable the full-text search index")
	cmd.Flags().BoolVar(&watch, "watch", false, "reindex local content files as they change")
	return cmd
}
