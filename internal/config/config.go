// Package config holds per-session configuration for the type lattice.
//
// A Session is created once per checking run and passed by handle into the
// subtype and lattice engines. It is read-only for the duration of a run, so
// multiple independent sessions can live side by side (e.g. parallel test
// runs) without interfering with each other.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Session carries the configuration of a single checking run.
type Session struct {
	// ID identifies this session in trace output.
	ID uuid.UUID `yaml:"-"`

	// StrictOptional controls whether None participates in the lattice as a
	// genuine bottom-adjacent member. When false, None is elided: it absorbs
	// in meets and is stripped from unions before overlap checks.
	StrictOptional bool `yaml:"strict_optional"`

	// IgnorePromotions is the default for overlap queries issued by the CLI.
	IgnorePromotions bool `yaml:"ignore_promotions"`
}

// Default returns a session with strict-optional enabled.
func Default() *Session {
	return &Session{
		ID:             uuid.New(),
		StrictOptional: true,
	}
}

// Load reads a session configuration from a YAML file (lattice.yaml).
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	ses := Default()
	if err := yaml.Unmarshal(data, ses); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ses, nil
}
