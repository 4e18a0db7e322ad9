// Package cli provides the command-line interface for backdrop.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/resolver"
)

var (
	// Resolve command flags
	resolveNode     string
	resolveProvider string
	resolveFormat   string
	resolvePreview  bool
	resolveFallback string
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [scene]",
	Short: "Resolve the effective background behind the selected node",
	Long: `Resolve the single solid colour that sits behind the selected node once
every intersecting layer around it is composited.

The scene is read from a JSON or YAML document, or fetched from a scene
provider plugin with --provider. The selection comes from the document's
"selection" field unless overridden with --node. Resolution always produces
a colour: siblings behind the target are considered first, then the parent
container, intersecting nodes in compositing order, their containing
ancestors, the page background, and finally a fixed fallback.

Examples:
  # Resolve the background behind the document's selection
  backdrop resolve scene.json

  # Resolve behind a specific node
  backdrop resolve --node title scene.yaml

  # Machine-readable output
  backdrop resolve --format json scene.json

  # Fetch the scene from a provider plugin
  backdrop resolve --provider ./figma-bridge --node title`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveNode, "node", "n", "", "id of the node to resolve behind (default: the document's selection)")
	resolveCmd.Flags().StringVarP(&resolveProvider, "provider", "p", "", "scene provider plugin binary to fetch the scene from")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "output format (text, json)")
	resolveCmd.Flags().BoolVar(&resolvePreview, "preview", false, "show a colour preview even when stdout is not a terminal")
	resolveCmd.Flags().StringVar(&resolveFallback, "fallback", "", "override the fixed fallback colour (hex or named)")
}

// runResolve executes the resolve command.
func runResolve(cmd *cobra.Command, args []string) error {
	doc, err := loadScene(args, resolveProvider, resolveNode)
	if err != nil {
		return err
	}

	opts := []resolver.Option{
		resolver.WithLogger(newLogger("resolver")),
	}
	if resolveFallback != "" {
		fallback, err := colour.Parse(resolveFallback)
		if err != nil {
			return fmt.Errorf("invalid fallback colour: %w", err)
		}
		opts = append(opts, resolver.WithFallback(fallback))
	}

	result := resolver.New(doc, opts...).ResolveSelection()

	switch resolveFormat {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
	case "text":
		printResult(doc.Selection().ID(), result)
	default:
		return fmt.Errorf("unknown output format %q: expected text or json", resolveFormat)
	}

	return nil
}

// printResult writes the human-readable resolution outcome.
func printResult(nodeID string, result resolver.Result) {
	if globalQuiet {
		fmt.Println(result.Hex())
		return
	}

	if resolvePreview || stdoutIsTerminal() {
		fmt.Printf("%s  %s behind %q (source: %s)\n",
			colour.Preview(result.Colour, 8), result.Hex(), nodeID, result.Source)
		return
	}
	fmt.Printf("%s behind %q (source: %s)\n", result.Hex(), nodeID, result.Source)
}
