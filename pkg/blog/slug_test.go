package blog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmleung/studylog/pkg/blog"
)

func TestDeriveSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"Already-Hyphenated Title", "already-hyphenated-title"},
		{"C'est la vie (2024)", "cest-la-vie-2024"},
		{"100 Days of Notes", "100-days-of-notes"},
		{"日本語のタイトル", "日本語のタイトル"},
	}
	for _, tc := range cases {
		got, err := blog.DeriveSlug(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestDeriveSlug_NothingSurvives(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "!!!", "¡¿?!", "   "} {
		_, err := blog.DeriveSlug(in)
		require.ErrorIs(t, err, blog.ErrValidation, "input %q", in)
	}
}

func TestDeriveSlug_Idempotent(t *testing.T) {
	t.Parallel()

	slug, err := blog.DeriveSlug("Note-taking: A Field Guide")
	require.NoError(t, err)
	again, err := blog.DeriveSlug(slug)
	require.NoError(t, err)
	require.Equal(t, slug, again)
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()

	for _, slug := range []string{"hello-world", "a", "100-days", "日本語"} {
		require.NoError(t, blog.ValidateSlug(slug), "slug %q", slug)
	}

	for _, slug := range []string{
		"",
		"../secret",
		"a/b",
		`a\b`,
		"has space",
		"Uppercase",
		"dot.dot",
	} {
		err := blog.ValidateSlug(slug)
		require.ErrorIs(t, err, blog.ErrInvalidSlug, "slug %q", slug)
	}
}
