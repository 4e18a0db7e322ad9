// Package sceneplugin is the public API for backdrop scene provider plugins.
// A provider plugin is an external binary (typically a bridge into a design
// tool) that serves one consistent, serialized scene document per request
// over go-plugin RPC. External providers should import this package rather
// than backdrop internals.
package sceneplugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// ProtocolVersion defines the current provider plugin API version.
const ProtocolVersion = 1

// Handshake is the handshake configuration for the go-plugin protocol. It
// ensures provider plugins only connect to compatible backdrop hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  ProtocolVersion,
	MagicCookieKey:   "BACKDROP_PLUGIN",
	MagicCookieValue: "backdrop_scene_provider",
}

// PluginName is the dispense name of the scene provider plugin.
const PluginName = "scene"

// SceneSource is the interface provider plugins implement. SceneDocument
// returns one consistent read of the host scene graph, serialized as a JSON
// scene document; the host never asks a provider for incremental updates.
type SceneSource interface {
	SceneDocument() ([]byte, error)
}

// ProviderPlugin implements the go-plugin Plugin interface for scene
// providers.
type ProviderPlugin struct {
	plugin.Plugin
	Impl SceneSource
}

// Server returns an RPC server for this plugin.
func (p *ProviderPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &providerRPCServer{impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *ProviderPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ProviderRPCClient{client: c}, nil
}

// providerRPCServer is the RPC server implementation for scene providers.
type providerRPCServer struct {
	impl SceneSource
}

// SceneDocument implements the RPC method for fetching the scene document.
func (s *providerRPCServer) SceneDocument(_ interface{}, resp *[]byte) error {
	data, err := s.impl.SceneDocument()
	if err != nil {
		return err
	}
	*resp = data
	return nil
}

// ProviderRPCClient is the RPC client implementation for scene providers.
type ProviderRPCClient struct {
	client *rpc.Client
}

// SceneDocument calls the remote SceneDocument method.
func (c *ProviderRPCClient) SceneDocument() ([]byte, error) {
	var data []byte
	if err := c.client.Call("Plugin.SceneDocument", new(interface{}), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Serve starts serving a scene provider plugin. Call this from the main
// function of a provider binary; it blocks until the host disconnects.
func Serve(src SceneSource) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &ProviderPlugin{Impl: src},
		},
	})
}
