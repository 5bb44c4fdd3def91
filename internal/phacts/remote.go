package phacts

import (
	"context"

	"github.com/ops4go/phacts/internal/ops"
)

// Remote is the subset of the linked data API the pipeline calls.
// *ops.Client implements it.
type Remote interface {
	SearchConcepts(ctx context.Context, text, tag string) (string, error)
	CompoundInfo(ctx context.Context, uri string) (string, error)
	TargetInfo(ctx context.Context, uri string) (string, error)
	PharmacologyCount(ctx context.Context, uri string) (string, error)
	PharmacologyPage(ctx context.Context, uri string, page, pageSize int) (string, error)
	MapURI(ctx context.Context, uri string) (string, error)
	Similarity(ctx context.Context, smiles string, threshold float64) (string, error)
	InChIToURI(ctx context.Context, inchi string) (string, error)
}

var _ Remote = (*ops.Client)(nil)

// ConceptBaseSource supplies the prefix that turns a concept ID into a URI.
type ConceptBaseSource interface {
	ConceptBase() string
}

// StaticConceptBase is a ConceptBaseSource with a fixed prefix.
type StaticConceptBase string

func (s StaticConceptBase) ConceptBase() string { return string(s) }
