package kg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knakk/rdf"
)

// prefixDirective matches Turtle @prefix and SPARQL-style PREFIX
// directives at the top of a document.
var prefixDirective = regexp.MustCompile(`(?im)^\s*@?prefix\s+([A-Za-z0-9_.-]*):\s*<([^>]*)>\s*\.?\s*$`)

// baseDirective matches Turtle @base and SPARQL-style BASE directives.
var baseDirective = regexp.MustCompile(`(?im)^\s*@?base\s+<([^>]*)>\s*\.?\s*$`)

// DetectFormat maps a file extension to an RDF serialization format.
// Unknown extensions default to Turtle, the workflow's lingua franca.
func DetectFormat(path string) rdf.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return rdf.NTriples
	case ".rdf", ".xml", ".owl":
		return rdf.RDFXML
	default:
		return rdf.Turtle
	}
}

// LoadFile parses an RDF file into a graph. The serialization format is
// inferred from the extension. Prefixes declared in Turtle documents
// are bound on the graph's namespace map for later CURIE rendering.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	g, err := Parse(bytes.NewReader(data), DetectFormat(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	scanPrefixes(g.Namespaces(), data)
	return g, nil
}

// Parse reads triples in the given format into a new graph.
func Parse(r io.Reader, format rdf.Format) (*Graph, error) {
	dec := rdf.NewTripleDecoder(r, format)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, err
	}
	g := NewGraph()
	g.Insert(triples...)
	return g, nil
}

// scanPrefixes binds prefix declarations found in the raw document.
// The knakk decoder does not surface them, so they are recovered from
// the source text; directives only occur on their own lines in Turtle.
func scanPrefixes(ns *Namespaces, data []byte) {
	for _, m := range prefixDirective.FindAllSubmatch(data, -1) {
		ns.Bind(string(m[1]), string(m[2]))
	}
}

// ScanBase returns the @base directive of a Turtle document, if any.
func ScanBase(data []byte) string {
	m := baseDirective.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return string(m[1])
}
