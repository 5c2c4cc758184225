// Package config loads the runtime configuration from a .env file (when
// present) and the process environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything the CLI and server need to talk to a content store
// and gate the admin surface.
type Config struct {
	// BlogDir selects the local filesystem backend when non-empty.
	BlogDir string

	// Remote content repository settings (used when BlogDir is empty).
	GitHubRepo   string // "owner/repo"
	GitHubToken  string
	GitHubBranch string

	// ContentDir is the post directory inside the remote repository.
	ContentDir string

	// Admin surface basic-auth credentials.
	AdminUser string
	AdminPass string

	// ListenAddr is the web server bind address.
	ListenAddr string

	// DataDir holds the full-text index and its sync-state database.
	DataDir string
}

// Load reads the named env files (falling back to ./.env, ignored when
// absent) and then the environment. Defaults match the hosted deployment:
// posts under data/blog, branch main.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else {
		// A missing .env is the normal production case.
		_ = godotenv.Load()
	}

	cfg := &Config{
		BlogDir:      os.Getenv("BLOG_DIR"),
		GitHubRepo:   os.Getenv("GITHUB_REPO"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubBranch: getEnv("GITHUB_BRANCH", getEnv("GITHUB_DEFAULT_BRANCH", "main")),
		ContentDir:   getEnv("CONTENT_DIR", "data/blog"),
		AdminUser:    os.Getenv("ADMIN_USER"),
		AdminPass:    os.Getenv("ADMIN_PASS"),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DataDir:      getEnv("DATA_DIR", "./data"),
	}
	return cfg, nil
}

// UsesLocalStore reports whether the filesystem backend is selected.
func (c *Config) UsesLocalStore() bool { return c.BlogDir != "" }

// ValidateRemote checks that the remote store settings are complete. Called
// only when the GitHub backend is selected.
func (c *Config) ValidateRemote() error {
	if c.GitHubRepo == "" || c.GitHubToken == "" {
		return fmt.Errorf("missing GitHub envs: GITHUB_TOKEN and GITHUB_REPO (owner/repo) are required")
	}
	return nil
}

// ValidateAdmin checks that the admin credentials are configured. The admin
// surface refuses to start without them.
func (c *Config) ValidateAdmin() error {
	if c.AdminUser == "" || c.AdminPass == "" {
		return fmt.Errorf("missing ADMIN_USER/ADMIN_PASS")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
