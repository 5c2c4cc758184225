package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/blog"
)

func NewGetCmd(deps *Deps) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "print one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := deps.Repo()
			if err != nil {
				return err
			}

			post, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				doc, err := blog.EncodeDocument(&post.FrontMatter, post.Body)
				if err != nil {
					return err
				}
				_, err = out.Write(doc)
				return err
			}

			fmt.Fprintf(out, "slug:     %s\n", post.Slug)
			fmt.Fprintf(out, "title:    %s\n", post.FrontMatter.Title)
			fmt.Fprintf(out, "date:     %s\n", post.FrontMatter.Date)
			if post.FrontMatter.Summary != "" {
				fmt.Fprintf(out, "summary:  %s\n", post.FrontMatter.Summary)
			}
			if len(post.FrontMatter.Tags) > 0 {
				fmt.Fprintf(out, "tags:     %v\n", post.FrontMatter.Tags)
			}
			fmt.Fprintf(out, "draft:    %t\n", post.FrontMatter.Draft)
			fmt.Fprintf(out, "revision: %s\n", post.Revision)
			fmt.Fprintln(out)
			fmt.Fprintln(out, post.Body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw stored document")
	return cmd
}
