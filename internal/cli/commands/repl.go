package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/kgforge-labs/kgforge/pkg/kg"
	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

func runREPL(cmd *cobra.Command, cmdCtx *CommandContext, graph *kg.Graph, inputPath string) error {
	format := resolveFormat("", cmdCtx.Cfg)

	// History lives next to the user's other dotfiles
	historyFile := ".kgforge_history"
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".kgforge_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "kgforge> ",
		HistoryFile:     historyFile,
		AutoComplete:    newQueryCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kgforge SPARQL REPL (%s: %d triples)\n", inputPath, graph.Len())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("kgforge> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") && multiLineBuffer.Len() == 0 {
			quit := handleDotCommand(cmd, graph, line, &format)
			if quit {
				break
			}
			continue
		}

		// Accumulate multi-line SPARQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("kgforge> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(cmd, graph, query, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// executeAndRender parses and evaluates one query against the loaded graph.
func executeAndRender(cmd *cobra.Command, graph *kg.Graph, query, format string) error {
	q, err := sparql.Parse(query)
	if err != nil {
		return err
	}

	ns := graph.Namespaces()
	ns.Merge(q.Prologue().Namespaces())

	switch q := q.(type) {
	case *sparql.SelectQuery:
		res, err := sparql.Select(graph, q)
		if err != nil {
			return err
		}
		return renderResults(cmd.OutOrStdout(), res, ns, format)
	case *sparql.AskQuery:
		result, err := sparql.Ask(graph, q)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%t\n", result)
		return nil
	default:
		return fmt.Errorf("unsupported query form")
	}
}

// handleDotCommand runs a REPL dot-command. It reports whether the REPL
// should exit.
func handleDotCommand(cmd *cobra.Command, graph *kg.Graph, line string, format *string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".prefixes":
		ns := graph.Namespaces()
		for _, prefix := range ns.Prefixes() {
			base, _ := ns.Base(prefix)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: <%s>\n", prefix, base)
		}

	case ".count":
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d triples\n", graph.Len())

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current format: %s\n", *format)
			break
		}
		switch parts[1] {
		case "csv", "table", "json", "md":
			*format = parts[1]
		default:
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown format: %s (csv, table, json, md)\n", parts[1])
		}

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .prefixes       List bound namespace prefixes
  .count          Show the number of loaded triples
  .format [fmt]   Show or set the output format (csv, table, json, md)
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Queries must end with a semicolon (;)
  - SELECT and ASK query forms are supported
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newQueryCompleter creates a readline completer for SPARQL keywords
// and dot-commands.
func newQueryCompleter() *readline.PrefixCompleter {
	keywords := []string{
		"SELECT", "ASK", "WHERE", "PREFIX", "BASE",
		"DISTINCT", "OPTIONAL", "FILTER", "ORDER", "BY", "LIMIT", "OFFSET",
	}

	var items []readline.PrefixCompleterInterface
	for _, kw := range keywords {
		items = append(items, readline.PcItem(kw))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".prefixes"),
		readline.PcItem(".count"),
		readline.PcItem(".format",
			readline.PcItem("csv"),
			readline.PcItem("table"),
			readline.PcItem("json"),
			readline.PcItem("md"),
		),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
