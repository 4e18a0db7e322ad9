// Package provider fetches scene documents from external scene provider
// plugins over go-plugin RPC.
package provider

import (
	"fmt"
	"io"
	"log"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/backdrop/internal/scene"
	"github.com/jmylchreest/backdrop/pkg/sceneplugin"
)

// Fetch launches the provider binary at path, requests one consistent scene
// document from it, and parses the result. The plugin process is torn down
// before Fetch returns; the resolver then works entirely on the parsed
// snapshot, matching the one-stable-read resolution model.
func Fetch(path string, verbose bool) (*scene.Document, error) {
	// Configure logger based on verbose flag.
	var logger hclog.Logger
	if verbose {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "provider",
			Output: log.Writer(),
			Level:  hclog.Debug,
		})
	} else {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "provider",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: sceneplugin.Handshake,
		Plugins: map[string]plugin.Plugin{
			sceneplugin.PluginName: &sceneplugin.ProviderPlugin{},
		},
		Cmd:              exec.Command(path), // #nosec G204 - provider path is user input by design
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           logger,
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to scene provider: %w", err)
	}

	raw, err := rpcClient.Dispense(sceneplugin.PluginName)
	if err != nil {
		return nil, fmt.Errorf("failed to dispense scene provider: %w", err)
	}

	source, ok := raw.(*sceneplugin.ProviderRPCClient)
	if !ok {
		return nil, fmt.Errorf("scene provider returned an unexpected client type %T", raw)
	}

	data, err := source.SceneDocument()
	if err != nil {
		return nil, fmt.Errorf("scene provider failed to produce a document: %w", err)
	}

	doc, err := scene.Parse(data, scene.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("scene provider produced an invalid document: %w", err)
	}

	return doc, nil
}
