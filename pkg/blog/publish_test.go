package blog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
)

func TestPublisher_CreateThenUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := blog.NewMemoryRepo()
	p := blog.NewPublisher(repo)

	res, err := p.Publish(ctx, blog.PublishInput{
		Title:   "Hello, World!",
		Date:    "2024-01-31",
		Summary: "first post",
		Tags:    "react, typescript",
		Content: "Welcome.\n",
	})
	require.NoError(t, err)
	require.Equal(t, "hello-world", res.Slug)
	require.Equal(t, "/blog/hello-world", res.URL)
	require.NotEmpty(t, res.Revision)
	require.Equal(t, 1, repo.Mutations())

	post, err := repo.Get(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, []string{"react", "typescript"}, post.FrontMatter.Tags)

	// same title publishes again as an update of the same document
	res2, err := p.Publish(ctx, blog.PublishInput{
		Title:   "Hello, World!",
		Date:    "2024-02-01",
		Content: "Revised.\n",
	})
	require.NoError(t, err)
	require.Equal(t, "hello-world", res2.Slug)
	require.NotEqual(t, res.Revision, res2.Revision)
	require.Equal(t, 2, repo.Mutations())

	post, err = repo.Get(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, "Revised.\n", post.Body)
	require.Equal(t, "2024-02-01", post.FrontMatter.Date)
}

func TestPublisher_ValidationNeverMutates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := blog.NewMemoryRepo()
	p := blog.NewPublisher(repo)

	cases := []blog.PublishInput{
		{Title: "", Date: "2024-01-01"},
		{Title: "   ", Date: "2024-01-01"},
		{Title: "ok", Date: ""},
		{Title: "ok", Date: "Jan 1 2024"},
		{Title: "ok", Date: "2024-13-40"},
		{Title: "!!!", Date: "2024-01-01"},
	}
	for _, in := range cases {
		_, err := p.Publish(ctx, in)
		require.ErrorIs(t, err, blog.ErrValidation, "input %+v", in)
	}
	require.Zero(t, repo.Mutations())
}

func TestPublisher_SlugOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := blog.NewMemoryRepo()
	p := blog.NewPublisher(repo)

	res, err := p.Publish(ctx, blog.PublishInput{
		Title:        "A Very Long and Winding Title",
		Date:         "2024-05-05",
		SlugOverride: "Short Name",
	})
	require.NoError(t, err)
	require.Equal(t, "short-name", res.Slug)
}

func TestPublisher_DraftFlagStored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := blog.NewMemoryRepo()
	p := blog.NewPublisher(repo)

	res, err := p.Publish(ctx, blog.PublishInput{
		Title: "Work in progress",
		Date:  "2024-07-07",
		Draft: true,
	})
	require.NoError(t, err)

	post, err := repo.Get(ctx, res.Slug)
	require.NoError(t, err)
	require.True(t, post.FrontMatter.Draft)
}

func TestPublisher_TrimsInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := blog.NewMemoryRepo()
	p := blog.NewPublisher(repo)

	res, err := p.Publish(ctx, blog.PublishInput{
		Title:   "  Padded Title  ",
		Date:    " 2024-08-08 ",
		Summary: "  padded summary  ",
	})
	require.NoError(t, err)
	require.Equal(t, "padded-title", res.Slug)

	post, err := repo.Get(ctx, res.Slug)
	require.NoError(t, err)
	require.Equal(t, "Padded Title", post.FrontMatter.Title)
	require.Equal(t, "2024-08-08", post.FrontMatter.Date)
	require.Equal(t, "padded summary", post.FrontMatter.Summary)
}
