package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List mod sources in load order",
	Long: `List the installed mods in the order they are indexed.

Earlier sources win: a file provided by a mod higher in the list shadows the
same file provided by any mod below it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Sources()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection(fmt.Sprintf("Mod Sources (%s)", PrintCount(len(result.Sources), "source", "sources")))
		if len(result.Sources) == 0 {
			PrintEmptyState("No mods installed")
			return nil
		}

		rows := make([][]string, 0, len(result.Sources))
		for _, src := range result.Sources {
			assets := "no"
			if src.HasAssets {
				assets = "yes"
			}
			rows = append(rows, []string{strconv.Itoa(src.Priority), src.Dir, assets})
		}
		PrintTable([]string{"PRIORITY", "DIR", "ASSETS"}, rows)
		fmt.Println()
		PrintLabelValue("Asset subdir", result.AssetSubdir)
		return nil
	},
}
