package blog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GitHubRepo implements Repository against a remote Git-hosted content
// repository through the GitHub contents API. Posts live as "{slug}.md" files
// under Dir on Branch. Every write is one commit; updates carry the current
// file sha so a concurrent remote edit is rejected by the API instead of
// silently clobbered.
type GitHubRepo struct {
	Owner  string
	Repo   string
	Branch string
	// Dir is the content directory inside the repository, e.g. "data/blog".
	Dir string

	token      string
	baseURL    string
	httpClient *http.Client
}

// NewGitHubRepo creates a contents-API backed repository. repoSpec is the
// "owner/repo" form used in configuration.
func NewGitHubRepo(repoSpec, branch, dir, token string) (*GitHubRepo, error) {
	owner, name, ok := strings.Cut(repoSpec, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("github repo must be \"owner/repo\", got %q", repoSpec)
	}
	if branch == "" {
		branch = "main"
	}
	return &GitHubRepo{
		Owner:   owner,
		Repo:    name,
		Branch:  branch,
		Dir:     dir,
		token:   token,
		baseURL: "https://api.github.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SetBaseURL overrides the API endpoint. Tests point it at a local server.
func (g *GitHubRepo) SetBaseURL(u string) { g.baseURL = strings.TrimRight(u, "/") }

func (g *GitHubRepo) Name() string { return "github" }

type contentsItem struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

func (g *GitHubRepo) List(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		g.baseURL, g.Owner, g.Repo, g.Dir, url.QueryEscape(g.Branch))

	var items []contentsItem
	status, err := g.doJSON(ctx, http.MethodGet, u, nil, &items)
	if err != nil {
		if status == http.StatusNotFound {
			// content directory absent means an empty store
			return nil, nil
		}
		return nil, NewBackendError("github", "List", status, err)
	}

	var slugs []string
	for _, it := range items {
		if it.Type != "" && it.Type != "file" {
			continue
		}
		if !strings.HasSuffix(it.Name, ContentExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(it.Name, ContentExt))
	}
	return slugs, nil
}

func (g *GitHubRepo) Get(ctx context.Context, slug string) (*Post, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	file, status, err := g.stat(ctx, slug)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, NewNotFoundError(slug)
		}
		return nil, NewBackendError("github", "Get", status, err)
	}

	raw, err := g.fileBytes(ctx, file)
	if err != nil {
		return nil, NewBackendError("github", "Get", 0, err)
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
		Revision:    file.SHA,
	}, nil
}

func (g *GitHubRepo) Put(ctx context.Context, slug string, fm *FrontMatter, body string, expectedRev string) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}

	data, err := EncodeDocument(fm, body)
	if err != nil {
		return "", err
	}

	action := "publish"
	if expectedRev != "" {
		action = "update"
	}

	reqBody := map[string]any{
		"message": fmt.Sprintf("chore(blog): %s %s", action, slug),
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  g.Branch,
	}
	if expectedRev != "" {
		reqBody["sha"] = expectedRev
	}

	var resp struct {
		Content *struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	status, err := g.doJSON(ctx, http.MethodPut, g.docURL(slug, false), reqBody, &resp)
	if err != nil {
		// the API answers 409 for a stale sha and 422 for a create racing an
		// existing file; both are the optimistic-write conflict
		if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
			return "", &ConflictError{Slug: slug, Expected: expectedRev}
		}
		return "", NewBackendError("github", "Put", status, err)
	}

	if resp.Content == nil {
		return "", NewBackendError("github", "Put", 0, errors.New("response missing content sha"))
	}
	return resp.Content.SHA, nil
}

// stat fetches the contents-API record for a post without following the
// download URL.
func (g *GitHubRepo) stat(ctx context.Context, slug string) (*contentsItem, int, error) {
	var file contentsItem
	status, err := g.doJSON(ctx, http.MethodGet, g.docURL(slug, true), nil, &file)
	if err != nil {
		return nil, status, err
	}
	return &file, status, nil
}

// fileBytes decodes the base64 payload the API inlines for small files, or
// falls back to the raw download URL when the payload is absent.
func (g *GitHubRepo) fileBytes(ctx context.Context, file *contentsItem) ([]byte, error) {
	if file.Content != "" && file.Encoding == "base64" {
		// the API wraps base64 at 60 columns
		cleaned := strings.ReplaceAll(file.Content, "\n", "")
		raw, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		return raw, nil
	}

	if file.DownloadURL == "" {
		return nil, errors.New("no inline content and no download url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download content: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (g *GitHubRepo) docURL(slug string, withRef bool) string {
	path := url.PathEscape(fmt.Sprintf("%s/%s%s", g.Dir, slug, ContentExt))
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.baseURL, g.Owner, g.Repo, path)
	if withRef {
		u += "?ref=" + url.QueryEscape(g.Branch)
	}
	return u
}

// doJSON performs an authenticated API request, decoding the JSON response
// into result when non-nil. It returns the HTTP status for error mapping; a
// zero status means the request never reached the API.
func (g *GitHubRepo) doJSON(ctx context.Context, method, u string, body any, result any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("api error: %s", apiErrorMessage(data, resp.Status))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func apiErrorMessage(body []byte, fallback string) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return fallback
}

var _ Repository = (*GitHubRepo)(nil)
