package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlayer/internal/overlay"
)

var showShadows bool

type indexOutput struct {
	Digest  string           `json:"digest"`
	Entries []overlay.Entry  `json:"entries"`
	Shadows []overlay.Shadow `json:"shadows"`
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and print the overlay index",
	Long: `Scan every mod source and print the resulting overlay index: each
virtual asset path and the mod file it is redirected to.

With --shadows, also list files that were ignored because a mod higher in the
load order already provides them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		idx, err := eng.BuildIndex(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			out := indexOutput{
				Digest:  idx.Digest().String(),
				Entries: make([]overlay.Entry, 0, idx.Len()),
				Shadows: idx.Shadows(),
			}
			for e := range idx.Entries() {
				out.Entries = append(out.Entries, e)
			}
			if out.Shadows == nil {
				out.Shadows = []overlay.Shadow{}
			}
			return outputJSON(out)
		}

		PrintSection(fmt.Sprintf("Overlay Index (%s)", PrintCount(idx.Len(), "entry", "entries")))
		if idx.Len() == 0 {
			PrintEmptyState("No mod files indexed")
		} else {
			rows := make([][]string, 0, idx.Len())
			for e := range idx.Entries() {
				rows = append(rows, []string{e.Key, e.Path})
			}
			PrintTable([]string{"PATH", "REPLACEMENT"}, rows)
		}

		shadows := idx.Shadows()
		if showShadows && len(shadows) > 0 {
			PrintSection(fmt.Sprintf("Shadowed (%s)", PrintCount(len(shadows), "file", "files")))
			for _, s := range shadows {
				PrintWarning(s.String())
			}
		}

		fmt.Println()
		PrintLabelValue("Digest", idx.Digest().String())
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&showShadows, "shadows", false, "List files shadowed by higher-priority mods")
}
