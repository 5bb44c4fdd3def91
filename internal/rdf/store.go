// Package rdf parses linked data API payloads into an in-memory triple store and
// answers basic graph pattern queries over it as tabular result sets.
//
// It is deliberately small: required triple patterns are joined in the order given,
// OPTIONAL groups are left-joined afterwards, and there are no filters, unions or
// property paths.
package rdf

import (
	"fmt"
	"strings"

	knakk "github.com/knakk/rdf"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
)

// Format identifies an RDF serialization accepted by Import.
type Format int

const (
	Turtle Format = iota
	NTriples
	RDFXML
)

func (f Format) String() string {
	switch f {
	case Turtle:
		return "turtle"
	case NTriples:
		return "ntriples"
	case RDFXML:
		return "rdfxml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

func (f Format) decoderFormat() (knakk.Format, bool) {
	switch f {
	case Turtle:
		return knakk.Turtle, true
	case NTriples:
		return knakk.NTriples, true
	case RDFXML:
		return knakk.RDFXML, true
	default:
		return 0, false
	}
}

// nodeKind distinguishes the three RDF term types once decoded.
type nodeKind uint8

const (
	kindIRI nodeKind = iota
	kindLiteral
	kindBlank
)

// node is a decoded RDF term. Two nodes are equal only when both kind and value match.
type node struct {
	kind  nodeKind
	value string
}

type triple struct {
	s, p, o node
}

// Store is an in-memory triple store filled by Import. It is not safe for
// concurrent mutation; each parsed payload gets its own store.
type Store struct {
	triples     []triple
	byPredicate map[string][]int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byPredicate: make(map[string][]int)}
}

// Len returns the number of triples in the store.
func (s *Store) Len() int {
	return len(s.triples)
}

// Import decodes payload in the given format and appends its triples in document order.
// A malformed payload leaves the store unchanged.
func (s *Store) Import(payload string, f Format) error {
	df, ok := f.decoderFormat()
	if !ok {
		return errors.Newf("unsupported RDF format %s", f).
			Component("rdf").
			Category(errors.CategoryValidation).
			Build()
	}

	decoded, err := knakk.NewTripleDecoder(strings.NewReader(payload), df).DecodeAll()
	if err != nil {
		return errors.New(fmt.Errorf("malformed %s payload: %w", f, err)).
			Component("rdf").
			Category(errors.CategoryRDFParse).
			Context("format", f.String()).
			Context("payload_bytes", len(payload)).
			Build()
	}

	for _, t := range decoded {
		s.add(triple{
			s: toNode(t.Subj),
			p: toNode(t.Pred),
			o: toNode(t.Obj),
		})
	}

	getLogger().Trace("imported payload",
		logger.String("format", f.String()),
		logger.Int("triples", len(decoded)),
		logger.Int("store_size", len(s.triples)))
	return nil
}

func (s *Store) add(t triple) {
	s.byPredicate[t.p.value] = append(s.byPredicate[t.p.value], len(s.triples))
	s.triples = append(s.triples, t)
}

func toNode(t knakk.Term) node {
	switch t.Type() {
	case knakk.TermIRI:
		return node{kind: kindIRI, value: t.String()}
	case knakk.TermBlank:
		label := t.String()
		if !strings.HasPrefix(label, "_:") {
			label = "_:" + label
		}
		return node{kind: kindBlank, value: label}
	default:
		return node{kind: kindLiteral, value: t.String()}
	}
}

func getLogger() logger.Logger {
	return logger.Global().Module("rdf")
}
