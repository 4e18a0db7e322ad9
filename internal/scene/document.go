package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/geometry"
)

// Format identifies a scene document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// rawDocument is the on-disk scene document schema. The same struct drives
// both the JSON and YAML decoders.
type rawDocument struct {
	Selection string  `json:"selection,omitempty" yaml:"selection,omitempty"`
	Page      rawPage `json:"page" yaml:"page"`
}

type rawPage struct {
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Background string    `json:"background,omitempty" yaml:"background,omitempty"`
	Children   []rawNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type rawNode struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Visible  *bool          `json:"visible,omitempty" yaml:"visible,omitempty"`
	Opacity  *float64       `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Blend    string         `json:"blend,omitempty" yaml:"blend,omitempty"`
	Bounds   *geometry.BBox `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Fills    []rawFill      `json:"fills,omitempty" yaml:"fills,omitempty"`
	Children []rawNode      `json:"children,omitempty" yaml:"children,omitempty"`
}

type rawFill struct {
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Colour  string   `json:"color,omitempty" yaml:"color,omitempty"`
	Visible *bool    `json:"visible,omitempty" yaml:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Blend   string   `json:"blend,omitempty" yaml:"blend,omitempty"`
}

// Document is a parsed scene document. It implements Provider, giving the
// resolver a complete synthetic scene with no live host attached.
type Document struct {
	page      *docNode
	selection string
	byID      map[string]*docNode
	pageFill  *Fill
}

// LoadFile reads and parses a scene document, choosing the format from the
// file extension (.json, .yaml, .yml).
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 - scene path is user input by design
	if err != nil {
		return nil, fmt.Errorf("failed to read scene document: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("unsupported scene document extension %q: expected .json, .yaml or .yml", filepath.Ext(path))
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a scene document from raw bytes in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	var raw rawDocument
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON scene document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML scene document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene document format %q", format)
	}

	return build(raw)
}

// build converts the raw schema into a linked Document.
func build(raw rawDocument) (*Document, error) {
	doc := &Document{
		selection: raw.Selection,
		byID:      make(map[string]*docNode),
	}

	pageName := raw.Page.Name
	if pageName == "" {
		pageName = "Page 1"
	}
	doc.page = &docNode{
		id:      "page",
		name:    pageName,
		kind:    KindPage,
		visible: true,
		opacity: 1,
	}

	if raw.Page.Background != "" {
		rgb, err := colour.Parse(raw.Page.Background)
		if err != nil {
			return nil, fmt.Errorf("page background: %w", err)
		}
		doc.pageFill = &Fill{
			Kind:    PaintSolid,
			Colour:  rgb,
			Visible: true,
			Opacity: 1,
			Blend:   BlendNormal,
		}
	}

	children, err := doc.buildNodes(raw.Page.Children, doc.page)
	if err != nil {
		return nil, err
	}
	doc.page.children = children

	if doc.selection != "" {
		if _, ok := doc.byID[doc.selection]; !ok {
			return nil, fmt.Errorf("selection %q does not name a node in the document", doc.selection)
		}
	}

	return doc, nil
}

func (d *Document) buildNodes(raws []rawNode, parent *docNode) ([]*docNode, error) {
	nodes := make([]*docNode, 0, len(raws))
	for _, raw := range raws {
		node, err := d.buildNode(raw, parent)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (d *Document) buildNode(raw rawNode, parent *docNode) (*docNode, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("node under %q is missing an id", parent.id)
	}
	if _, exists := d.byID[raw.ID]; exists {
		return nil, fmt.Errorf("duplicate node id %q", raw.ID)
	}

	kind, err := parseKind(raw.Kind)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", raw.ID, err)
	}

	node := &docNode{
		id:      raw.ID,
		name:    raw.Name,
		kind:    kind,
		visible: raw.Visible == nil || *raw.Visible,
		opacity: 1,
		blend:   BlendMode(raw.Blend),
		parent:  parent,
	}
	if node.name == "" {
		node.name = raw.ID
	}
	if raw.Opacity != nil {
		node.opacity = *raw.Opacity
	}
	if raw.Bounds != nil {
		b := *raw.Bounds
		node.bounds = &b
	}

	for i, rf := range raw.Fills {
		fill, err := parseFill(rf)
		if err != nil {
			return nil, fmt.Errorf("node %q fill %d: %w", raw.ID, i, err)
		}
		node.fills = append(node.fills, fill)
	}

	d.byID[raw.ID] = node

	children, err := d.buildNodes(raw.Children, node)
	if err != nil {
		return nil, err
	}
	node.children = children

	return node, nil
}

func parseKind(s string) (NodeKind, error) {
	switch NodeKind(strings.ToLower(s)) {
	case "":
		// Nodes default to plain shapes.
		return KindShape, nil
	case KindFrame:
		return KindFrame, nil
	case KindGroup:
		return KindGroup, nil
	case KindShape:
		return KindShape, nil
	case KindText:
		return KindText, nil
	case KindPage:
		return "", fmt.Errorf("kind %q is reserved for the document root", s)
	default:
		return "", fmt.Errorf("unknown node kind %q", s)
	}
}

func parseFill(raw rawFill) (Fill, error) {
	fill := Fill{
		Kind:    PaintSolid,
		Visible: raw.Visible == nil || *raw.Visible,
		Opacity: 1,
		Blend:   BlendMode(raw.Blend),
	}
	if raw.Kind != "" {
		fill.Kind = PaintKind(strings.ToLower(raw.Kind))
	}
	if raw.Opacity != nil {
		fill.Opacity = *raw.Opacity
	}
	if fill.Blend == "" {
		fill.Blend = BlendNormal
	}

	if fill.Kind == PaintSolid {
		if raw.Colour == "" {
			return Fill{}, fmt.Errorf("solid fill is missing a colour")
		}
		rgb, err := colour.Parse(raw.Colour)
		if err != nil {
			return Fill{}, err
		}
		fill.Colour = rgb
	}

	return fill, nil
}

// Page returns the document's page node.
func (d *Document) Page() Node {
	return d.page
}

// SetSelection changes the document's active selection. Used by callers that
// override the selection recorded in the file.
func (d *Document) SetSelection(id string) error {
	if _, ok := d.byID[id]; !ok {
		return fmt.Errorf("no node with id %q in the document", id)
	}
	d.selection = id
	return nil
}

// Selection implements Provider.
func (d *Document) Selection() Node {
	if d.selection == "" {
		return nil
	}
	node, ok := d.byID[d.selection]
	if !ok {
		return nil
	}
	return node
}

// PageChildren implements Provider.
func (d *Document) PageChildren() []Node {
	return d.page.Children()
}

// PageBackground implements Provider.
func (d *Document) PageBackground() (Fill, bool) {
	if d.pageFill == nil {
		return Fill{}, false
	}
	return *d.pageFill, true
}

// NodeByID implements Provider.
func (d *Document) NodeByID(id string) (Node, bool) {
	if id == d.page.id {
		return d.page, true
	}
	node, ok := d.byID[id]
	return node, ok
}

// docNode is the Document's Node implementation.
type docNode struct {
	id       string
	name     string
	kind     NodeKind
	visible  bool
	opacity  float64
	fills    []Fill
	blend    BlendMode
	bounds   *geometry.BBox
	parent   *docNode
	children []*docNode
}

func (n *docNode) ID() string       { return n.id }
func (n *docNode) Name() string     { return n.name }
func (n *docNode) Kind() NodeKind   { return n.kind }
func (n *docNode) Visible() bool    { return n.visible }
func (n *docNode) Opacity() float64 { return n.opacity }
func (n *docNode) Blend() BlendMode { return n.blend }

func (n *docNode) Fills() []Fill {
	// Copy so callers cannot mutate document state.
	if len(n.fills) == 0 {
		return nil
	}
	fills := make([]Fill, len(n.fills))
	copy(fills, n.fills)
	return fills
}

func (n *docNode) Bounds() (geometry.BBox, bool) {
	if n.bounds == nil {
		return geometry.BBox{}, false
	}
	return *n.bounds, true
}

func (n *docNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *docNode) Children() []Node {
	children := make([]Node, len(n.children))
	for i, c := range n.children {
		children[i] = c
	}
	return children
}
