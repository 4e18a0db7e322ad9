// Package cli provides the command-line interface for backdrop.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backdrop/internal/resolver"
)

var (
	// Inspect command flags
	inspectNode     string
	inspectProvider string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [scene]",
	Short: "Show the background candidates behind the selected node",
	Long: `Walk the scene the way resolution does and print every candidate node
that could sit behind the selection, in compositing order (topmost last).

Each row shows the candidate's depth and sibling position, its eligibility
(blend-ineligible subtrees cannot provide a background), and the fill it
would contribute. Useful for understanding why resolution picked - or
skipped - a particular layer.

Examples:
  backdrop inspect scene.json
  backdrop inspect --node title scene.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectNode, "node", "n", "", "id of the node to inspect behind (default: the document's selection)")
	inspectCmd.Flags().StringVarP(&inspectProvider, "provider", "p", "", "scene provider plugin binary to fetch the scene from")
}

// runInspect executes the inspect command.
func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := loadScene(args, inspectProvider, inspectNode)
	if err != nil {
		return err
	}
	selected := doc.Selection()

	finder := resolver.NewFinder(doc, newLogger("finder"))
	set, err := finder.Find(selected)
	if err != nil {
		return fmt.Errorf("failed to walk the scene: %w", err)
	}

	candidates := resolver.Flatten(set)
	if len(candidates) == 0 {
		fmt.Printf("no candidates intersect %q; resolution falls through to the page background\n", selected.ID())
		return nil
	}

	table := NewTable([]string{"ID", "KIND", "DEPTH", "Z", "ELIGIBILITY", "FILL"})
	for _, snap := range candidates {
		fillHex := "-"
		if fill, ok := snap.SolidFill(); ok {
			fillHex = fill.Colour.Hex()
		}
		table.AddRow([]string{
			snap.ID,
			string(snap.Kind),
			strconv.Itoa(snap.NestingLevel),
			strconv.Itoa(snap.ZIndex),
			resolver.Classify(snap).String(),
			fillHex,
		})
	}

	fmt.Printf("candidates behind %q, topmost last:\n\n", selected.ID())
	fmt.Print(table.Render())
	return nil
}
