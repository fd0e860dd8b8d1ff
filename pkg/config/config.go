// Package config holds the file names and dimensions of a steganography run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
	"github.com/jpfielding/pgmsteg.go/pkg/util"
	"gopkg.in/yaml.v3"
)

// Pipeline configures one embed/extract run
type Pipeline struct {
	Cover     string `yaml:"cover"`     // plain graymap hiding the secret
	Secret    string `yaml:"secret"`    // plain graymap to hide
	Stego     string `yaml:"stego"`     // raw graymap written after embedding
	Recovered string `yaml:"recovered"` // plain graymap written after extraction

	// expected dimensions of every input
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// provenance comment written into output headers
	Comment string `yaml:"comment"`
}

// Default returns the stock 512x512 baboon/farm configuration
func Default() *Pipeline {
	return &Pipeline{
		Cover:     "baboon.pgm",
		Secret:    "farm.pgm",
		Stego:     "stego_image_bin.pgm",
		Recovered: "extracted_secret.pgm",
		Width:     512,
		Height:    512,
		Comment:   pgm.DefaultComment,
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (*Pipeline, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("configuration file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	return cfg, nil
}

func (p *Pipeline) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Encode writes the configuration as YAML
func (p *Pipeline) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return enc.Close()
}

// Save writes the configuration as YAML to path
func (p *Pipeline) Save(path string) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file '%s': %w", path, err)
	}
	return nil
}

// Fingerprint identifies the settings, equal configurations share it
func (p *Pipeline) Fingerprint() string {
	return util.HashUUID(p)
}

// Validate reports the first unusable setting
func (p *Pipeline) Validate() error {
	paths := []struct{ name, value string }{
		{"cover", p.Cover},
		{"secret", p.Secret},
		{"stego", p.Stego},
		{"recovered", p.Recovered},
	}
	for _, f := range paths {
		if f.value == "" {
			return fmt.Errorf("config: %s path is required", f.name)
		}
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("config: invalid dimensions %dx%d", p.Width, p.Height)
	}
	return nil
}
