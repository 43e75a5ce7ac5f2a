// Package kg provides an in-memory RDF triple store with namespace-aware
// term rendering, built on the knakk/rdf term model.
package kg

import (
	"github.com/knakk/rdf"
)

// Graph is an insertion-ordered collection of RDF triples with
// per-position indexes for pattern matching. It is read-only after
// loading; Insert is not safe for concurrent use.
type Graph struct {
	triples []rdf.Triple
	ns      *Namespaces

	// Posting lists of triple indexes, keyed by the N-Triples
	// serialization of the term in that position.
	bySubj map[string][]int
	byPred map[string][]int
	byObj  map[string][]int
}

// NewGraph returns an empty graph with an empty namespace map.
func NewGraph() *Graph {
	return &Graph{
		ns:     NewNamespaces(),
		bySubj: make(map[string][]int),
		byPred: make(map[string][]int),
		byObj:  make(map[string][]int),
	}
}

// TermKey returns the canonical map key for a term. Two terms are equal
// iff their keys are equal.
func TermKey(t rdf.Term) string {
	return t.Serialize(rdf.NTriples)
}

// Insert appends triples to the graph, updating the indexes.
// Duplicate triples are kept; SPARQL semantics are unaffected because
// solutions are deduplicated at projection time when DISTINCT is used.
func (g *Graph) Insert(triples ...rdf.Triple) {
	for _, t := range triples {
		i := len(g.triples)
		g.triples = append(g.triples, t)
		g.bySubj[TermKey(t.Subj)] = append(g.bySubj[TermKey(t.Subj)], i)
		g.byPred[TermKey(t.Pred)] = append(g.byPred[TermKey(t.Pred)], i)
		g.byObj[TermKey(t.Obj)] = append(g.byObj[TermKey(t.Obj)], i)
	}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

// Namespaces returns the prefix map associated with the graph.
func (g *Graph) Namespaces() *Namespaces {
	return g.ns
}

// Match returns all triples matching the given terms in insertion
// order. A nil term is a wildcard. The narrowest available posting
// list is scanned; remaining positions are checked per candidate.
func (g *Graph) Match(s, p, o rdf.Term) []rdf.Triple {
	candidates := g.candidates(s, p, o)

	var out []rdf.Triple
	for _, i := range candidates {
		t := g.triples[i]
		if s != nil && TermKey(t.Subj) != TermKey(s) {
			continue
		}
		if p != nil && TermKey(t.Pred) != TermKey(p) {
			continue
		}
		if o != nil && TermKey(t.Obj) != TermKey(o) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// candidates picks the shortest posting list among the bound positions,
// falling back to a full scan when all positions are wildcards.
func (g *Graph) candidates(s, p, o rdf.Term) []int {
	var best []int
	found := false

	consider := func(list []int) {
		if !found || len(list) < len(best) {
			best = list
			found = true
		}
	}

	if s != nil {
		consider(g.bySubj[TermKey(s)])
	}
	if p != nil {
		consider(g.byPred[TermKey(p)])
	}
	if o != nil {
		consider(g.byObj[TermKey(o)])
	}
	if found {
		return best
	}

	all := make([]int, len(g.triples))
	for i := range all {
		all[i] = i
	}
	return all
}
