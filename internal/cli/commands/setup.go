// Package commands implements the kgforge subcommands.
package commands

import (
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kgforge-labs/kgforge/internal/cli/config"
	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext creates a CommandContext from the command's config and logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	robot := getEnvOrDefault("KGFORGE_ROBOT", getEnvOrDefault("ROBOT", config.DefaultRobot))
	reasoner := getEnvOrDefault("KGFORGE_REASONER", config.DefaultReasoner)
	format := getEnvOrDefault("KGFORGE_FORMAT", config.DefaultFormat)

	return &config.Config{
		Robot:            robot,
		Reasoner:         reasoner,
		DefaultNamespace: os.Getenv("KGFORGE_DEFAULT_NAMESPACE"),
		Format:           format,
		Verbose:          os.Getenv("KGFORGE_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadGraph loads the input file and applies configured prefix bindings.
// Bindings declared in the document itself take precedence over config.
func loadGraph(cmdCtx *CommandContext, path string) (*kg.Graph, error) {
	g, err := kg.LoadFile(path)
	if err != nil {
		return nil, err
	}

	ns := g.Namespaces()
	if len(cmdCtx.Cfg.Prefixes) > 0 {
		extra := kg.NewNamespaces()
		for _, prefix := range sortedKeys(cmdCtx.Cfg.Prefixes) {
			extra.Bind(prefix, cmdCtx.Cfg.Prefixes[prefix])
		}
		ns.Merge(extra)
	}
	if cmdCtx.Cfg.DefaultNamespace != "" {
		ns.Bind("", cmdCtx.Cfg.DefaultNamespace)
	}

	cmdCtx.Logger.Debug("graph loaded", "path", path, "triples", g.Len())
	return g, nil
}

// resolveFormat picks the output format for a command: the command's own
// --format if set, else the configured default.
func resolveFormat(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Format != "" {
		return cfg.Format
	}
	return config.DefaultFormat
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
