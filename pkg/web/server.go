// Package web serves the public post API and the password-gated admin
// surface over the content store.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jmleung/studylog/pkg/blog"
	"github.com/jmleung/studylog/pkg/log"
	"github.com/jmleung/studylog/pkg/search"
)

// publicCacheControl lets the CDN serve slightly stale listings while it
// revalidates, matching the hosting setup the site runs behind.
const publicCacheControl = "s-maxage=30, stale-while-revalidate=60"

// Server wires the content store, listing index, publisher, and optional
// full-text index into an HTTP surface.
type Server struct {
	repo      blog.Repository
	index     *blog.Index
	publisher *blog.Publisher
	fulltext  *search.Index // nil disables /api/posts/search full-text mode

	adminUser string
	adminPass string
	logger    *slog.Logger
}

// NewServer constructs a server. fulltext may be nil; the search endpoint
// then falls back to the listing index's substring matching only. When
// either admin credential is empty the admin routes are not registered.
func NewServer(repo blog.Repository, fulltext *search.Index, adminUser, adminPass string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{
		repo:      repo,
		index:     blog.NewIndex(repo, logger),
		publisher: blog.NewPublisher(repo),
		fulltext:  fulltext,
		adminUser: adminUser,
		adminPass: adminPass,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/posts", s.handleListPosts)
	r.GET("/api/posts/search", s.handleSearch)
	r.GET("/blog/:slug", s.handlePostPage)

	// gin.BasicAuth panics on an empty username; without credentials the
	// admin surface simply does not exist
	if s.adminUser != "" && s.adminPass != "" {
		admin := r.Group("/api/admin", gin.BasicAuth(gin.Accounts{
			s.adminUser: s.adminPass,
		}))
		admin.GET("/list", s.handleAdminList)
		admin.GET("/get", s.handleAdminGet)
		admin.POST("/publish", s.handleAdminPublish)
	}

	return r
}

func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.index.ListPublic(c.Request.Context())
	if err != nil {
		s.fail(c, "list posts", err)
		return
	}
	c.Header("Cache-Control", publicCacheControl)
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleSearch answers both search styles: the listing index's tag/title
// matching always runs; with ?full=1 and a configured full-text index, body
// matches are returned as well.
func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")

	posts, err := s.index.Search(c.Request.Context(), query, false)
	if err != nil {
		s.fail(c, "search posts", err)
		return
	}

	resp := gin.H{"posts": posts, "query": query}
	if s.fulltext != nil && c.Query("full") == "1" && query != "" {
		hits, err := s.fulltext.Query(query, 20, false)
		if err != nil {
			s.fail(c, "full-text search", err)
			return
		}
		resp["fulltext"] = hits
	}

	c.Header("Cache-Control", publicCacheControl)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePostPage(c *gin.Context) {
	slug := c.Param("slug")
	post, err := s.repo.Get(c.Request.Context(), slug)
	if err != nil {
		s.fail(c, "get post", err)
		return
	}
	if post.FrontMatter.Draft {
		// drafts are admin-only; to the public this post does not exist
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	page, err := RenderPostPage(post)
	if err != nil {
		s.fail(c, "render post", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleAdminList(c *gin.Context) {
	items, err := s.index.ListAdmin(c.Request.Context())
	if err != nil {
		s.fail(c, "admin list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleAdminGet(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing slug"})
		return
	}

	post, err := s.repo.Get(c.Request.Context(), slug)
	if err != nil {
		s.fail(c, "admin get", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":    post.Slug,
		"title":   post.FrontMatter.Title,
		"date":    post.FrontMatter.Date,
		"summary": post.FrontMatter.Summary,
		"tags":    tagsOrEmpty(post.FrontMatter.Tags),
		"draft":   post.FrontMatter.Draft,
		"content": post.Body,
	})
}

type publishRequest struct {
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Draft   bool     `json:"draft"`
	Slug    string   `json:"slug"`
	Content string   `json:"content"`
}

func (s *Server) handleAdminPublish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.publisher.Publish(c.Request.Context(), blog.PublishInput{
		Title:        req.Title,
		Date:         req.Date,
		Summary:      req.Summary,
		Tags:         joinTags(req.Tags),
		Draft:        req.Draft,
		SlugOverride: req.Slug,
		Content:      req.Content,
	})
	if err != nil {
		s.fail(c, "publish", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"url":      result.URL,
		"revision": result.Revision,
	})
}

// fail maps the blog error taxonomy onto HTTP statuses and logs backend
// failures at error level, client mistakes at debug.
func (s *Server) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, blog.ErrValidation), errors.Is(err, blog.ErrInvalidSlug):
		status = http.StatusBadRequest
	case errors.Is(err, blog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, blog.ErrConflict):
		status = http.StatusConflict
	case blog.IsBackendError(err):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(op, slog.String("error", err.Error()))
	} else {
		s.logger.Debug(op, slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
