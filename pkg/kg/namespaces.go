package kg

import (
	"strings"

	"github.com/knakk/rdf"
)

// Namespaces maps prefixes to base IRIs for CURIE rendering and
// expansion. The empty prefix is the default namespace. Bind order is
// preserved for serialization.
type Namespaces struct {
	prefixes map[string]string
	order    []string
}

// NewNamespaces returns an empty namespace map.
func NewNamespaces() *Namespaces {
	return &Namespaces{prefixes: make(map[string]string)}
}

// Bind associates a prefix with a base IRI. Rebinding an existing
// prefix replaces its base but keeps its position in the bind order.
func (n *Namespaces) Bind(prefix, base string) {
	if _, ok := n.prefixes[prefix]; !ok {
		n.order = append(n.order, prefix)
	}
	n.prefixes[prefix] = base
}

// Base returns the base IRI bound to a prefix.
func (n *Namespaces) Base(prefix string) (string, bool) {
	base, ok := n.prefixes[prefix]
	return base, ok
}

// Prefixes returns the bound prefixes in bind order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Len returns the number of bound prefixes.
func (n *Namespaces) Len() int {
	return len(n.prefixes)
}

// Merge binds all prefixes of other that are not already bound.
// Existing bindings win, so document prefixes take precedence over
// query or configuration prefixes when merged in that order.
func (n *Namespaces) Merge(other *Namespaces) {
	if other == nil {
		return
	}
	for _, p := range other.order {
		if _, ok := n.prefixes[p]; !ok {
			n.Bind(p, other.prefixes[p])
		}
	}
}

// Expand resolves a prefixed name of the form "prefix:local" against
// the bound namespaces. It reports false when the prefix is unbound.
func (n *Namespaces) Expand(pname string) (string, bool) {
	idx := strings.Index(pname, ":")
	if idx < 0 {
		return "", false
	}
	base, ok := n.prefixes[pname[:idx]]
	if !ok {
		return "", false
	}
	return base + pname[idx+1:], true
}

// Shrink renders an IRI as a CURIE against the longest matching bound
// base. When no binding matches, the full IRI is returned in angle
// brackets, mirroring rdflib's normalizeUri fallback.
func (n *Namespaces) Shrink(iri string) string {
	bestPrefix := ""
	bestLen := -1
	for prefix, base := range n.prefixes {
		if base == "" || !strings.HasPrefix(iri, base) {
			continue
		}
		local := iri[len(base):]
		if !validLocalPart(local) {
			continue
		}
		if len(base) > bestLen {
			bestPrefix, bestLen = prefix, len(base)
		}
	}
	if bestLen < 0 {
		return "<" + iri + ">"
	}
	return bestPrefix + ":" + iri[bestLen:]
}

// validLocalPart reports whether a CURIE local part can be rendered
// without escaping. Separator characters mean the binding base was not
// the IRI's true namespace.
func validLocalPart(local string) bool {
	return !strings.ContainsAny(local, "/#:?")
}

// FormatTerm renders a term for tabular output: IRIs as CURIEs (or
// <iri> when unshrinkable), literals as their lexical value, blank
// nodes in _:label form.
func (n *Namespaces) FormatTerm(t rdf.Term) string {
	if t == nil {
		return ""
	}
	switch t.Type() {
	case rdf.TermIRI:
		return n.Shrink(t.String())
	case rdf.TermLiteral:
		return t.String()
	default:
		return t.Serialize(rdf.NTriples)
	}
}
