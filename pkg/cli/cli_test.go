package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
	"github.com/jmleung/studylog/pkg/cli"
)

// runCmd executes the tool against a local content directory and captures
// its output. Backend selection happens through the environment, so these
// tests cannot run in parallel.
func runCmd(t *testing.T, blogDir string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BLOG_DIR", blogDir)
	t.Setenv("DATA_DIR", t.TempDir())

	root := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seedDir(t *testing.T, dir, slug, title, date string, draft bool) {
	t.Helper()
	repo := blog.NewFsRepo(dir)
	fm := &blog.FrontMatter{Title: title, Date: date, Draft: draft}
	_, err := repo.Put(context.Background(), slug, fm, "body\n", "")
	require.NoError(t, err)
}

func TestPublishThenListAndGet(t *testing.T) {
	dir := t.TempDir()

	out, err := runCmd(t, dir, "Hello body.\n",
		"publish",
		"--title", "Hello, World!",
		"--date", "2024-01-31",
		"--tags", "react,typescript",
		"--content-file", "-")
	require.NoError(t, err)
	require.Contains(t, out, "published /blog/hello-world")

	out, err = runCmd(t, dir, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "hello-world")
	require.Contains(t, out, "2024-01-31")

	out, err = runCmd(t, dir, "", "get", "hello-world")
	require.NoError(t, err)
	require.Contains(t, out, "title:    Hello, World!")
	require.Contains(t, out, "Hello body.")

	out, err = runCmd(t, dir, "", "get", "hello-world", "--raw")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "---\n"))
	require.Contains(t, out, "title: Hello, World!")
}

func TestList_DraftsHiddenByDefault(t *testing.T) {
	dir := t.TempDir()
	seedDir(t, dir, "live", "Live", "2024-01-01", false)
	seedDir(t, dir, "wip", "WIP", "2024-02-01", true)

	out, err := runCmd(t, dir, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "live")
	require.NotContains(t, out, "wip")

	out, err = runCmd(t, dir, "", "list", "--drafts")
	require.NoError(t, err)
	require.Contains(t, out, "live")
	require.Contains(t, out, "d 2024-02-01  wip")
}

func TestGet_MissingPostFails(t *testing.T) {
	_, err := runCmd(t, t.TempDir(), "", "get", "nope")
	require.Error(t, err)
	require.ErrorIs(t, err, blog.ErrNotFound)
}

func TestPublish_ValidationFailure(t *testing.T) {
	_, err := runCmd(t, t.TempDir(), "",
		"publish", "--title", "", "--date", "2024-01-01")
	require.Error(t, err)
	require.ErrorIs(t, err, blog.ErrValidation)
}

func TestSearch_TagAndSubstring(t *testing.T) {
	dir := t.TempDir()
	seedDir(t, dir, "focus-post", "Deep Focus", "2024-01-01", false)

	out, err := runCmd(t, dir, "", "search", "focus")
	require.NoError(t, err)
	require.Contains(t, out, "focus-post")

	out, err = runCmd(t, dir, "", "search", "pomodoro")
	require.NoError(t, err)
	require.NotContains(t, out, "focus-post")
}

func TestReindexThenFullSearch(t *testing.T) {
	dir := t.TempDir()
	repo := blog.NewFsRepo(dir)
	fm := &blog.FrontMatter{Title: "Retrieval practice", Date: "2024-03-03"}
	_, err := repo.Put(context.Background(), "retrieval-practice", fm,
		"Quizzing yourself beats rereading.\n", "")
	require.NoError(t, err)

	data := t.TempDir()
	t.Setenv("DATA_DIR", data)

	// reuse the same data dir across both invocations
	runWithData := func(stdin string, args ...string) (string, error) {
		t.Setenv("BLOG_DIR", dir)
		root := cli.NewRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetIn(strings.NewReader(stdin))
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	out, err := runWithData("", "reindex")
	require.NoError(t, err)
	require.Contains(t, out, "1 indexed")

	out, err = runWithData("", "search", "--full", "quizzing")
	require.NoError(t, err)
	require.Contains(t, out, "full-text matches:")
	require.Contains(t, out, "retrieval-practice")
}
