package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

type yamlFile struct {
	Entry      string         `yaml:"entry"`
	Paths      any            `yaml:"paths"`
	Locals     map[string]any `yaml:"locals"`
	Globals    map[string]any `yaml:"globals"`
	Stats      string         `yaml:"stats"`
	OutputDir  string         `yaml:"output_dir"`
	PublicPath *string        `yaml:"public_path"`
}

// DecodeYAML decodes a prerender.yaml file. Unknown keys are rejected.
func DecodeYAML(src []byte) (*File, error) {
	var parsed yamlFile
	if err := yaml.UnmarshalWithOptions(src, &parsed, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	paths, err := pathList(parsed.Paths)
	if err != nil {
		return nil, err
	}

	return &File{
		Entry:      parsed.Entry,
		Paths:      paths,
		Locals:     parsed.Locals,
		Globals:    parsed.Globals,
		Stats:      parsed.Stats,
		OutputDir:  parsed.OutputDir,
		PublicPath: parsed.PublicPath,
	}, nil
}
