package loot

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the full set of flavor tables used by the roll commands.
type Content struct {
	Fishing Pools `yaml:"fishing"`
	Biomes  Table `yaml:"biomes"`
	Cats    Table `yaml:"cats"`
	AASSG   Run   `yaml:"aassg"`
}

// Validate checks every table in the content.
func (c *Content) Validate() error {
	if err := c.Fishing.Validate(); err != nil {
		return fmt.Errorf("fishing: %w", err)
	}
	if err := c.Biomes.Validate(); err != nil {
		return fmt.Errorf("biomes: %w", err)
	}
	if err := c.Cats.Validate(); err != nil {
		return fmt.Errorf("cats: %w", err)
	}
	if err := c.AASSG.Validate(); err != nil {
		return fmt.Errorf("aassg: %w", err)
	}
	return nil
}

// Load decodes and validates content from r.
//
// Postcondition: Returns validated Content or a non-nil error.
func Load(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding loot content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating loot content: %w", err)
	}
	return &c, nil
}

// LoadFile loads content from a YAML file.
func LoadFile(path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening loot content %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in content.
//
// Postcondition: Panics if the embedded content is invalid.
func Default() *Content {
	c, err := Load(bytes.NewReader(defaultContent))
	if err != nil {
		panic(fmt.Sprintf("loot: embedded content invalid: %v", err))
	}
	return c
}
