package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlayer/internal/engine"
)

var openWrite bool

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Simulate an intercepted open",
	Long: `Install the redirector into an in-process hook table and run one open
through it. The original open resolves the path against the configured game
directory; on a hit the returned handle is replaced with one for the mod file.

Handles are closed before the command exits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.OpenRequest{
			Path:     args[0],
			ReadOnly: !openWrite,
		}

		result, err := eng.Simulate(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		mode := "read-only"
		if !result.ReadOnly {
			mode = "read-write"
		}

		PrintSection(fmt.Sprintf("Open %s (%s)", result.Path, mode))
		PrintLabelValue("Baseline opened", fmt.Sprintf("%v", result.BaselineOK))
		if !result.Redirected {
			PrintLabelValue("Redirected", "false")
			return nil
		}

		PrintLabelValue("Redirected", "true")
		PrintLabelValue("Replacement", result.Replacement)
		PrintLabelValue("Archive handle", fmt.Sprintf("%d", result.Archive))
		if result.HandleOK {
			PrintSuccess("Replacement handle opened")
		} else {
			PrintWarning("Replacement open failed; the game will see an invalid handle")
		}
		return nil
	},
}

func init() {
	openCmd.Flags().BoolVar(&openWrite, "write", false, "Use read-write open flags")
}
