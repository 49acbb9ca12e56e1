package cmd

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/graph"
)

// newQueryCmd creates and configures the 'query' subcommand.
func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Lists the domains linking to a target domain",
		Long: `Reads the recorded link graph and prints every domain with at least one
edge to the target, ordered by link count descending. Run it against the
same store a previous crawl wrote to; a domain nobody links to yields an
empty table, not an error.`,

		RunE: runQueryCommand,
	}

	cmd.Flags().String("domain", "", "target domain to report incoming links for")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}

func runQueryCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	raw, err := cmd.Flags().GetString("domain")
	if err != nil {
		return fmt.Errorf("read domain flag: %w", err)
	}
	target, err := crawler.NormalizeSeed(raw)
	if err != nil {
		return fmt.Errorf("invalid domain %q: %w", raw, err)
	}

	rows, err := graph.NewAggregator(appInstance.GetStore()).LinksTo(cmd.Context(), string(target))
	if err != nil {
		return err
	}

	appInstance.GetLogger().Debug("Query finished",
		zap.String("domain", string(target)),
		zap.Int("sources", len(rows)))

	tbl := table.New("From Domain", "Number of links to this domain")
	tbl.WithWriter(cmd.OutOrStdout())
	for _, row := range rows {
		tbl.AddRow(row.Source, row.Count)
	}
	tbl.Print()

	return nil
}
