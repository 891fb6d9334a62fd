package mood

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed graph.yaml
var defaultGraph []byte

// GraphDef is the declarative form of a mood graph. Node order in the
// document is the detection order.
type GraphDef struct {
	Graph       string `yaml:"graph"`
	Description string `yaml:"description,omitempty"`
	Nodes       []Node `yaml:"nodes"`
}

// ParseGraph decodes a YAML graph definition without validating it. Unknown
// keys are rejected so a misspelled bound cannot silently drop a condition.
func ParseGraph(data []byte) (*GraphDef, error) {
	var def GraphDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse mood graph YAML: %v", ErrConfiguration, err)
	}
	return &def, nil
}

// Encode serializes the definition back to YAML.
func (def *GraphDef) Encode() ([]byte, error) {
	return yaml.Marshal(def)
}

// Build validates the definition and returns the registry.
func (def *GraphDef) Build() (*Registry, error) {
	name := def.Graph
	if name == "" {
		name = "unnamed"
	}
	return NewRegistry(name, def.Nodes)
}

// LoadRegistry parses and validates a YAML graph definition.
func LoadRegistry(data []byte) (*Registry, error) {
	def, err := ParseGraph(data)
	if err != nil {
		return nil, err
	}
	return def.Build()
}

// LoadRegistryFile reads a YAML graph definition from path.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mood graph: %w", err)
	}
	reg, err := LoadRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("mood graph %s: %w", path, err)
	}
	return reg, nil
}

// DefaultRegistry builds the built-in mood graph. Callers build it once at
// startup and pass it to the components that need it.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultGraph)
}

// DefaultGraphYAML returns a copy of the built-in graph definition.
func DefaultGraphYAML() []byte {
	return append([]byte(nil), defaultGraph...)
}
