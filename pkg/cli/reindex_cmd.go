package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewReindexCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the full-text index from the content store",
		Long: `reindex walks every post in the content store and indexes the ones
whose revision changed since the last run. Posts that fail to parse are skipped
and counted; they never abort the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := deps.Repo()
			if err != nil {
				return err
			}

			idx, err := deps.OpenSearch()
			if err != nil {
				return err
			}
			defer idx.Close()

			stats, err := idx.Reindex(cmd.Context(), repo)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"%d posts: %d indexed, %d unchanged, %d degraded (%s)\n",
				stats.Total, stats.Indexed, stats.Skipped, stats.Degraded,
				stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
}
