package web

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/jmleung/studylog/pkg/blog"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html"))

// markdown is the shared converter for post bodies: GitHub-flavored tables
// and strikethrough, auto heading ids for anchor links.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts a post body to HTML.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderPostPage renders a post into the full HTML page served at
// /blog/{slug}.
func RenderPostPage(post *blog.Post) ([]byte, error) {
	rendered, err := RenderMarkdown(post.Body)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplates.ExecuteTemplate(&buf, "post.html", map[string]any{
		"Title":   post.FrontMatter.Title,
		"Date":    post.FrontMatter.Date,
		"Summary": post.FrontMatter.Summary,
		"Tags":    post.FrontMatter.Tags,
		"Content": htmltemplate.HTML(rendered),
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
