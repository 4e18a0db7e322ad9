// Package cli provides the command-line interface for backdrop.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/resolver"
	"github.com/jmylchreest/backdrop/internal/scene"
)

var (
	// Check command flags
	checkNode       string
	checkProvider   string
	checkForeground string
	checkFormat     string
	checkLarge      bool
)

// WCAG 2.0 contrast thresholds.
const (
	contrastAA       = 4.5
	contrastAALarge  = 3.0
	contrastAAA      = 7.0
	contrastAAALarge = 4.5
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [scene]",
	Short: "Check contrast between a node and its effective background",
	Long: `Resolve the effective background behind the selected node, then compute
the WCAG 2.0 contrast ratio between that background and a foreground
colour.

The foreground defaults to the selected node's own first solid fill (the
usual case for text); override it with --fg. Thresholds follow WCAG: AA
requires 4.5:1 for normal text and 3:1 for large text, AAA requires 7:1
and 4.5:1.

Examples:
  # Check the selection's own fill against what it sits on
  backdrop check scene.json

  # Check a specific foreground colour behind a node
  backdrop check --node title --fg "#e0e0e0" scene.yaml

  # Large-text thresholds, JSON output
  backdrop check --large --format json scene.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkNode, "node", "n", "", "id of the node to check (default: the document's selection)")
	checkCmd.Flags().StringVarP(&checkProvider, "provider", "p", "", "scene provider plugin binary to fetch the scene from")
	checkCmd.Flags().StringVar(&checkForeground, "fg", "", "foreground colour (default: the node's first solid fill)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "output format (text, json)")
	checkCmd.Flags().BoolVar(&checkLarge, "large", false, "use large-text thresholds")
}

// checkReport is the JSON shape of one contrast check.
type checkReport struct {
	Node       string          `json:"node"`
	Foreground string          `json:"foreground"`
	Background resolver.Result `json:"background"`
	Ratio      float64         `json:"ratio"`
	AA         bool            `json:"aa"`
	AAA        bool            `json:"aaa"`
}

// runCheck executes the check command.
func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := loadScene(args, checkProvider, checkNode)
	if err != nil {
		return err
	}
	selected := doc.Selection()

	fg, err := foregroundColour(selected)
	if err != nil {
		return err
	}

	result := resolver.New(doc, resolver.WithLogger(newLogger("resolver"))).Resolve(selected)
	ratio := colour.ContrastRatio(fg, result.Colour)

	aa, aaa := contrastAA, contrastAAA
	if checkLarge {
		aa, aaa = contrastAALarge, contrastAAALarge
	}

	report := checkReport{
		Node:       selected.ID(),
		Foreground: fg.Hex(),
		Background: result,
		Ratio:      ratio,
		AA:         ratio >= aa,
		AAA:        ratio >= aaa,
	}

	switch checkFormat {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
	case "text":
		printReport(report, result)
	default:
		return fmt.Errorf("unknown output format %q: expected text or json", checkFormat)
	}

	return nil
}

// foregroundColour picks the foreground for the check: the --fg flag when
// given, otherwise the selected node's first visible solid fill.
func foregroundColour(selected scene.Node) (colour.RGB, error) {
	if checkForeground != "" {
		fg, err := colour.Parse(checkForeground)
		if err != nil {
			return colour.RGB{}, fmt.Errorf("invalid foreground colour: %w", err)
		}
		return fg, nil
	}

	for _, fill := range selected.Fills() {
		if fill.IsCandidate() {
			return fill.Colour, nil
		}
	}
	return colour.RGB{}, fmt.Errorf("node %q has no solid fill to use as foreground; pass --fg", selected.ID())
}

// printReport writes the human-readable contrast verdict.
func printReport(report checkReport, result resolver.Result) {
	verdict := "fail"
	if report.AAA {
		verdict = "AAA"
	} else if report.AA {
		verdict = "AA"
	}

	if stdoutIsTerminal() {
		fmt.Printf("%s on %s  ", colour.PreviewWithText(result.Colour, "sample", 8), result.Hex())
	}
	fmt.Printf("contrast %.2f:1 between %s and %s (background source: %s) - %s\n",
		report.Ratio, report.Foreground, result.Hex(), result.Source, verdict)
}
