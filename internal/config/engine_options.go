package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadEngineOptions reads engine settings from a YAML document of the form
//
//	options:
//	  Threads: 8
//	  UCI_ShowWDL: true
//
// The returned slice keeps document order, which is the order the engine
// receives the setoption commands in.
func LoadEngineOptions(r io.Reader) ([]EngineOption, error) {
	var doc struct {
		Options yaml.Node `yaml:"options"`
	}

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}

		return nil, fmt.Errorf("decode engine options: %w", err)
	}

	node := doc.Options
	if node.Kind == 0 {
		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode engine options: line %d: options must be a mapping", node.Line)
	}

	opts := make([]EngineOption, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("decode engine options: line %d: option %q must have a scalar value", value.Line, key.Value)
		}

		if value.Tag == "!!null" {
			opts = append(opts, EngineOption{Name: key.Value})

			continue
		}

		opts = append(opts, EngineOption{Name: key.Value, Value: value.Value})
	}

	return opts, nil
}

// LoadEngineOptionsFile reads engine settings from the YAML file at path.
func LoadEngineOptionsFile(path string) ([]EngineOption, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open engine options: %w", err)
	}
	defer f.Close()

	return LoadEngineOptions(f)
}
