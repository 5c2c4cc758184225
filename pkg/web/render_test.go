package web_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
	"github.com/jmleung/studylog/pkg/web"
)

func TestRenderMarkdown_GFM(t *testing.T) {
	t.Parallel()

	out, err := web.RenderMarkdown("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n")
	require.NoError(t, err)
	require.Contains(t, out, `<h1 id="title">Title</h1>`)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<del>gone</del>")
}

func TestRenderMarkdown_RawHTMLPassesThrough(t *testing.T) {
	t.Parallel()

	// authors are trusted; embedded HTML like iframes must survive
	out, err := web.RenderMarkdown("before\n\n<div class=\"callout\">note</div>\n")
	require.NoError(t, err)
	require.Contains(t, out, `<div class="callout">note</div>`)
}

func TestRenderPostPage_IncludesMetadataAndBody(t *testing.T) {
	t.Parallel()

	post := &blog.Post{
		Slug: "sample",
		FrontMatter: blog.FrontMatter{
			Title: "Sample & Sons",
			Date:  "2024-09-09",
			Tags:  []string{"study"},
		},
		Body: "Some **bold** text.\n",
	}

	page, err := web.RenderPostPage(post)
	require.NoError(t, err)
	html := string(page)
	require.Contains(t, html, "Sample &amp; Sons")
	require.Contains(t, html, "2024-09-09")
	require.Contains(t, html, "<strong>bold</strong>")
}
