package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlayer/internal/engine"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Show where asset paths would be redirected",
	Long: `Resolve one or more asset paths exactly as the game would pass them to
its open routine, including any leading "../../../" prefix, and report which
mod file would be opened instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		idx, err := eng.BuildIndex(context.Background())
		if err != nil {
			return err
		}

		result := eng.Resolve(idx, &engine.ResolveRequest{Paths: args})

		if jsonOutput {
			return outputJSON(result)
		}

		for _, r := range result.Resolutions {
			if r.Redirected {
				PrintSuccess(r.Path)
				PrintLabelValue("Replacement", r.Replacement)
				PrintLabelValue("Source", r.Source)
			} else {
				PrintInfo(r.Path)
				PrintEmptyState("not overridden")
			}
		}
		return nil
	},
}
