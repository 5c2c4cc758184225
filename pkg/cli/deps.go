package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/jmleung/studylog/pkg/blog"
	"github.com/jmleung/studylog/pkg/config"
	"github.com/jmleung/studylog/pkg/search"
)

// Deps carries the resolved configuration and logger into the commands.
// Commands build their repository and indexes lazily from it so a
// misconfigured backend only fails the commands that need it.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
}

// Repo selects the content store backend: local filesystem when BLOG_DIR is
// set, the remote Git-hosted repository otherwise.
func (d *Deps) Repo() (blog.Repository, error) {
	if d.Config.UsesLocalStore() {
		return blog.NewFsRepo(d.Config.BlogDir), nil
	}
	if err := d.Config.ValidateRemote(); err != nil {
		return nil, err
	}
	return blog.NewGitHubRepo(
		d.Config.GitHubRepo,
		d.Config.GitHubBranch,
		d.Config.ContentDir,
		d.Config.GitHubToken,
	)
}

// OpenSearch opens the full-text index under the data directory.
func (d *Deps) OpenSearch() (*search.Index, error) {
	return search.Open(
		filepath.Join(d.Config.DataDir, "bleve"),
		filepath.Join(d.Config.DataDir, "state.db"),
		d.Logger,
	)
}
