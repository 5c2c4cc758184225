package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/blog"
)

func NewListCmd(deps *Deps) *cobra.Command {
	var drafts bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "list posts, newest first",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := deps.Repo()
			if err != nil {
				return err
			}
			index := blog.NewIndex(repo, deps.Logger)

			var items []blog.PostSummary
			if drafts {
				items, err = index.ListAdmin(cmd.Context())
			} else {
				items, err = index.ListPublic(cmd.Context())
			}
			if err != nil {
				return err
			}

			for _, it := range items {
				marker := " "
				if it.Draft {
					marker = "d"
				}
				if it.Degraded {
					marker = "!"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s  %s\n", marker, it.Date, it.Slug)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "include drafts")
	return cmd
}
