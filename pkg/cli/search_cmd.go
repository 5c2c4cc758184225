package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/blog"
)

func NewSearchCmd(deps *Deps) *cobra.Command {
	var (
		drafts   bool
		fulltext bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "search posts by tag, title, or body",
		Long: `search matches a "#tag" query against tags exactly, and anything
else against titles and tags as a substring. With --full the query also runs
against post bodies through the full-text index (build it with reindex).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			repo, err := deps.Repo()
			if err != nil {
				return err
			}

			items, err := blog.NewIndex(repo, deps.Logger).Search(cmd.Context(), query, drafts)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Fprintf(out, "%-10s  %s\n", it.Date, it.Slug)
			}

			if !fulltext {
				return nil
			}

			idx, err := deps.OpenSearch()
			if err != nil {
				return err
			}
			defer idx.Close()

			hits, err := idx.Query(query, limit, drafts)
			if err != nil {
				return err
			}
			if len(hits) > 0 {
				fmt.Fprintln(out, "\nfull-text matches:")
			}
			for _, h := range hits {
				fmt.Fprintf(out, "%6.3f  %s\n", h.Score, h.Slug)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "include drafts")
	cmd.Flags().BoolVar(&fulltext, "full", false, "also search post bodies")
	cmd.Flags().IntVar(&limit, "limit", 20, "max full-text hits")
	return cmd
}
