// Package cli provides the command-line interface for backdrop.
package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jmylchreest/backdrop/internal/provider"
	"github.com/jmylchreest/backdrop/internal/scene"
)

// loadScene loads a scene document either from the positional file argument
// or from a scene provider plugin, then applies an optional selection
// override. Exactly one source must be given.
func loadScene(args []string, providerPath, nodeID string) (*scene.Document, error) {
	var doc *scene.Document
	var err error

	switch {
	case providerPath != "" && len(args) > 0:
		return nil, fmt.Errorf("pass either a scene file or --provider, not both")
	case providerPath != "":
		doc, err = provider.Fetch(providerPath, globalVerbose)
	case len(args) > 0:
		doc, err = scene.LoadFile(args[0])
	default:
		return nil, fmt.Errorf("a scene file argument or --provider is required")
	}
	if err != nil {
		return nil, err
	}

	if nodeID != "" {
		if err := doc.SetSelection(nodeID); err != nil {
			return nil, err
		}
	}
	if doc.Selection() == nil {
		return nil, fmt.Errorf("no selection: the document names none and --node was not given")
	}

	return doc, nil
}

// stdoutIsTerminal reports whether stdout is attached to a terminal, which
// decides whether colour previews render by default.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
