// Package content loads the static copy of the site from YAML. The default
// content is embedded; a file given on the command line replaces it.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/greeting/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the embedded content. It panics if the embedded file is
// broken, which the package tests rule out.
func Default() model.Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return c
}

// Load reads content from path, or returns the embedded default when path is empty.
func Load(path string) (model.Content, error) {
	if path == "" {
		return Parse(defaultYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Content{}, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return model.Content{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates content. Unknown keys are rejected so typos in
// a hand-edited file do not silently drop a section.
func Parse(data []byte) (model.Content, error) {
	var c model.Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return model.Content{}, fmt.Errorf("parse content: %w", err)
	}
	if err := Validate(c); err != nil {
		return model.Content{}, err
	}
	return c, nil
}
