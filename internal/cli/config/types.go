// Package config provides configuration management for the kgforge CLI.
//
// Configuration is resolved from (lowest to highest precedence) built-in
// defaults, a kgforge.yaml file, KGFORGE_ environment variables, and
// command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Robot is the path to the ROBOT executable used by `kgforge reason`.
	Robot string `koanf:"robot"`
	// Reasoner is the OWL reasoner ROBOT should run (hermit, elk, ...).
	Reasoner string `koanf:"reasoner"`
	// DefaultNamespace, when set, is bound to the empty prefix so IRIs
	// under it render as `:local`.
	DefaultNamespace string `koanf:"default_namespace"`
	// Base is the base IRI used when writing Turtle.
	Base string `koanf:"base"`
	// Prefixes are extra prefix -> namespace bindings applied on top of
	// the ones declared in input documents.
	Prefixes map[string]string `koanf:"prefixes"`
	// Format is the default output format for stdout rendering.
	Format  string `koanf:"format"`
	Verbose bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultRobot    = "robot"
	DefaultReasoner = "hermit"
	DefaultFormat   = "csv"
)
