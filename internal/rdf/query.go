package rdf

import (
	"slices"

	"github.com/ops4go/phacts/internal/errors"
)

// Term is one position of a triple pattern: either a variable or a fixed IRI.
type Term struct {
	variable string
	iri      string
}

// Var returns a variable term. A leading '?' is accepted and stripped.
func Var(name string) Term {
	if len(name) > 0 && name[0] == '?' {
		name = name[1:]
	}
	return Term{variable: name}
}

// IRI returns a term that matches exactly the given IRI.
func IRI(iri string) Term {
	return Term{iri: iri}
}

// IsVar reports whether the term is a variable.
func (t Term) IsVar() bool {
	return t.variable != ""
}

func (t Term) String() string {
	if t.IsVar() {
		return "?" + t.variable
	}
	return "<" + t.iri + ">"
}

// Pattern is a single triple pattern.
type Pattern struct {
	S, P, O Term
}

// Triple builds a pattern from subject, predicate and object terms.
func Triple(s, p, o Term) Pattern {
	return Pattern{S: s, P: p, O: o}
}

// Query selects variables from solutions of the Where patterns, extended by
// each Optional group in turn. Where must not be empty.
type Query struct {
	Select   []string
	Where    []Pattern
	Optional [][]Pattern
}

// binding maps variable names to the node they are bound to.
type binding map[string]node

func (b binding) extend(name string, n node) (binding, bool) {
	if bound, ok := b[name]; ok {
		return b, bound == n
	}
	next := make(binding, len(b)+1)
	for k, v := range b {
		next[k] = v
	}
	next[name] = n
	return next, true
}

// variables returns every variable in q in order of first appearance.
func (q Query) variables() []string {
	var vars []string
	seen := func(p Pattern) {
		for _, t := range []Term{p.S, p.P, p.O} {
			if t.IsVar() && !slices.Contains(vars, t.variable) {
				vars = append(vars, t.variable)
			}
		}
	}
	for _, p := range q.Where {
		seen(p)
	}
	for _, group := range q.Optional {
		for _, p := range group {
			seen(p)
		}
	}
	return vars
}

func (q Query) columns() ([]string, error) {
	vars := q.variables()
	if len(q.Select) == 0 {
		return vars, nil
	}
	cols := make([]string, 0, len(q.Select))
	for _, name := range q.Select {
		name = Var(name).variable
		if !slices.Contains(vars, name) {
			return nil, errors.Newf("selected variable ?%s does not appear in any pattern", name).
				Component("rdf").
				Category(errors.CategoryValidation).
				Build()
		}
		cols = append(cols, name)
	}
	return cols, nil
}

// Query evaluates q against the store. No match yields an empty ResultSet.
func (s *Store) Query(q Query) (*ResultSet, error) {
	cols, err := q.columns()
	if err != nil {
		return nil, err
	}
	if len(q.Where) == 0 {
		return nil, errors.Newf("query needs at least one required pattern").
			Component("rdf").
			Category(errors.CategoryValidation).
			Build()
	}

	solutions := []binding{{}}
	for _, p := range q.Where {
		solutions = s.join(solutions, p)
		if len(solutions) == 0 {
			break
		}
	}

	for _, group := range q.Optional {
		solutions = s.leftJoin(solutions, group)
	}

	return newResultSet(cols, solutions), nil
}

// leftJoin extends each solution with the group's matches, keeping it unchanged when none match.
func (s *Store) leftJoin(solutions []binding, group []Pattern) []binding {
	out := make([]binding, 0, len(solutions))
	for _, sol := range solutions {
		extended := []binding{sol}
		for _, p := range group {
			extended = s.join(extended, p)
			if len(extended) == 0 {
				break
			}
		}
		if len(extended) == 0 {
			out = append(out, sol)
			continue
		}
		out = append(out, extended...)
	}
	return out
}

// join extends every solution with each triple that matches p under it.
func (s *Store) join(solutions []binding, p Pattern) []binding {
	var out []binding
	for _, sol := range solutions {
		for _, i := range s.candidates(p, sol) {
			if next, ok := match(s.triples[i], p, sol); ok {
				out = append(out, next)
			}
		}
	}
	return out
}

// candidates returns the triple indices worth testing against p, in document order.
func (s *Store) candidates(p Pattern, sol binding) []int {
	pred := p.P.iri
	if p.P.IsVar() {
		bound, ok := sol[p.P.variable]
		if !ok {
			all := make([]int, len(s.triples))
			for i := range all {
				all[i] = i
			}
			return all
		}
		pred = bound.value
	}
	return s.byPredicate[pred]
}

func match(t triple, p Pattern, sol binding) (binding, bool) {
	b := sol
	ok := true
	for _, pair := range [3]struct {
		term Term
		n    node
	}{{p.S, t.s}, {p.P, t.p}, {p.O, t.o}} {
		if !pair.term.IsVar() {
			if pair.n.kind != kindIRI || pair.n.value != pair.term.iri {
				return nil, false
			}
			continue
		}
		if b, ok = b.extend(pair.term.variable, pair.n); !ok {
			return nil, false
		}
	}
	return b, true
}

// Parse imports a Turtle payload into a fresh store and evaluates q against it.
func Parse(payload string, q Query) (*ResultSet, error) {
	store := NewStore()
	if err := store.Import(payload, Turtle); err != nil {
		return nil, err
	}
	return store.Query(q)
}
