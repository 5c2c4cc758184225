package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmleung/studylog/pkg/blog"
)

func NewPublishCmd(deps *Deps) *cobra.Command {
	var (
		title       string
		date        string
		summary     string
		tags        string
		draft       bool
		slug        string
		contentFile string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "publish a post to the content store",
		Long: `publish validates the fields, derives a slug from the title (or
--slug), and creates or updates the stored document in a single commit.
Content is read from --content-file, or stdin when the flag is "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := ""
			switch contentFile {
			case "":
				// an empty body is a valid post
			case "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = string(data)
			default:
				data, err := os.ReadFile(contentFile)
				if err != nil {
					return err
				}
				content = string(data)
			}

			repo, err := deps.Repo()
			if err != nil {
				return err
			}

			result, err := blog.NewPublisher(repo).Publish(cmd.Context(), blog.PublishInput{
				Title:        title,
				Date:         date,
				Summary:      summary,
				Tags:         tags,
				Draft:        draft,
				SlugOverride: slug,
				Content:      content,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s (revision %s)\n", result.URL, result.Revision)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (required)")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "publication date (ISO)")
	cmd.Flags().StringVar(&summary, "summary", "", "short summary")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().BoolVar(&draft, "draft", false, "mark as draft")
	cmd.Flags().StringVar(&slug, "slug", "", "slug override (derived from title by default)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", `body file, "-" for stdin`)

	return cmd
}
