package kg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knakk/rdf"
)

// WriteOptions controls graph serialization.
type WriteOptions struct {
	// Format selects the serialization; Turtle when zero-valued.
	Format rdf.Format

	// Base, when set, is emitted as an @base directive and IRIs under
	// it are written relative to it. Turtle only.
	Base string

	// DefaultNamespace, when set, is bound to the empty prefix before
	// writing. Turtle only.
	DefaultNamespace string
}

// WriteFile serializes the graph to a file, overwriting it if present.
func WriteFile(g *Graph, path string, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := Write(f, g, opts); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Write serializes the graph. N-Triples goes through the library
// encoder; Turtle uses the prefix-aware printer below, which the
// library does not provide.
func Write(w io.Writer, g *Graph, opts WriteOptions) error {
	if opts.Format == rdf.NTriples {
		enc := rdf.NewTripleEncoder(w, rdf.NTriples)
		for _, t := range g.Triples() {
			if err := enc.Encode(t); err != nil {
				_ = enc.Close()
				return err
			}
		}
		return enc.Close()
	}
	return writeTurtle(w, g, opts)
}

// turtlePrinter accumulates Turtle output with directive and
// subject-grouping state.
type turtlePrinter struct {
	w    *bufio.Writer
	ns   *Namespaces
	base string
	err  error
}

func (p *turtlePrinter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = p.w.WriteString(s)
}

func writeTurtle(w io.Writer, g *Graph, opts WriteOptions) error {
	ns := NewNamespaces()
	if opts.DefaultNamespace != "" {
		ns.Bind("", opts.DefaultNamespace)
	}
	ns.Merge(g.Namespaces())

	p := &turtlePrinter{w: bufio.NewWriter(w), ns: ns, base: opts.Base}

	if opts.Base != "" {
		p.write(fmt.Sprintf("@base <%s> .\n", opts.Base))
	}
	for _, prefix := range ns.Prefixes() {
		base, _ := ns.Base(prefix)
		p.write(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, base))
	}
	if opts.Base != "" || ns.Len() > 0 {
		p.write("\n")
	}

	for _, group := range groupBySubject(g.Triples()) {
		p.writeSubjectGroup(group)
	}

	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

// subjectGroup holds one subject's triples in first-appearance order,
// with objects collected per predicate.
type subjectGroup struct {
	subj  rdf.Subject
	preds []rdf.Predicate
	objs  map[string][]rdf.Object
}

func groupBySubject(triples []rdf.Triple) []*subjectGroup {
	var groups []*subjectGroup
	index := make(map[string]*subjectGroup)

	for _, t := range triples {
		sk := TermKey(t.Subj)
		grp, ok := index[sk]
		if !ok {
			grp = &subjectGroup{subj: t.Subj, objs: make(map[string][]rdf.Object)}
			index[sk] = grp
			groups = append(groups, grp)
		}
		pk := TermKey(t.Pred)
		if _, seen := grp.objs[pk]; !seen {
			grp.preds = append(grp.preds, t.Pred)
		}
		grp.objs[pk] = append(grp.objs[pk], t.Obj)
	}
	return groups
}

func (p *turtlePrinter) writeSubjectGroup(grp *subjectGroup) {
	p.write(p.term(grp.subj))
	for i, pred := range grp.preds {
		if i == 0 {
			p.write(" ")
		} else {
			p.write(" ;\n    ")
		}
		p.write(p.term(pred))
		for j, obj := range grp.objs[TermKey(pred)] {
			if j > 0 {
				p.write(" ,")
			}
			p.write(" " + p.term(obj))
		}
	}
	p.write(" .\n")
}

// term renders a term in Turtle syntax, preferring CURIEs and
// base-relative IRIs.
func (p *turtlePrinter) term(t rdf.Term) string {
	switch t.Type() {
	case rdf.TermIRI:
		iri := t.String()
		if iri == rdfType {
			return "a"
		}
		if curie := p.ns.Shrink(iri); !strings.HasPrefix(curie, "<") {
			return curie
		}
		if p.base != "" && strings.HasPrefix(iri, p.base) {
			return "<" + iri[len(p.base):] + ">"
		}
		return "<" + iri + ">"
	case rdf.TermLiteral:
		return p.literal(t)
	default:
		return t.Serialize(rdf.NTriples)
	}
}

const (
	rdfType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	xsdString = "http://www.w3.org/2001/XMLSchema#string"
)

func (p *turtlePrinter) literal(t rdf.Term) string {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return t.Serialize(rdf.NTriples)
	}
	quoted := quoteString(lit.String())
	if lang := lit.Lang(); lang != "" {
		return quoted + "@" + lang
	}
	if dt := lit.DataType.String(); dt != "" && dt != xsdString {
		return quoted + "^^" + p.term(lit.DataType)
	}
	return quoted
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
