package phacts

import (
	"context"
	"iter"
	"math"
	"sync/atomic"

	"github.com/ops4go/phacts/internal/chem"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/rdf"
)

// Similarity searches for compounds structurally similar to a molecule.
type Similarity struct {
	remote    Remote
	toolkit   chem.Toolkit
	threshold float64
	metrics   *metrics.OPSMetrics
}

// NewSimilarity returns a Similarity stage. A nil toolkit uses chem.Builtin;
// an out-of-range default threshold uses 0.8.
func NewSimilarity(remote Remote, toolkit chem.Toolkit, defaultThreshold float64, m *metrics.OPSMetrics) *Similarity {
	if toolkit == nil {
		toolkit = chem.Builtin{}
	}
	if !validThreshold(defaultThreshold) {
		defaultThreshold = conf.DefaultSimilarityThreshold
	}
	return &Similarity{remote: remote, toolkit: toolkit, threshold: defaultThreshold, metrics: m}
}

func validThreshold(t float64) bool {
	return !math.IsNaN(t) && t > 0 && t <= 1
}

// Threshold returns the cutoff used for t: t itself when it lies in (0, 1],
// the default otherwise.
func (s *Similarity) Threshold(t *float64) float64 {
	if t == nil || !validThreshold(*t) {
		return s.threshold
	}
	return *t
}

// FindSimilar returns the URIs of compounds similar to mol, in parse order.
// Nothing is fetched until the sequence is ranged, and it can be ranged only
// once; a second range yields ErrSequenceConsumed.
func (s *Similarity) FindSimilar(ctx context.Context, mol *chem.Molecule, threshold *float64) iter.Seq2[string, error] {
	cutoff := s.Threshold(threshold)
	var consumed atomic.Bool

	return func(yield func(string, error) bool) {
		if consumed.Swap(true) {
			yield("", ErrSequenceConsumed)
			return
		}

		smiles, err := s.toolkit.CanonicalSMILES(mol)
		if err != nil {
			yield("", err)
			return
		}
		payload, err := s.remote.Similarity(ctx, smiles, cutoff)
		if err != nil {
			yield("", err)
			return
		}
		rs, err := rdf.Parse(payload, similarityQuery)
		if err != nil {
			s.metrics.RecordParseError("similarity")
			yield("", parseError(err, "similarity"))
			return
		}

		for _, row := range rs.Rows() {
			s.metrics.RecordSimilarResult()
			if !yield(row.Value("compound"), nil) {
				return
			}
		}
	}
}

// CollectSimilar is the eager form of FindSimilar.
func (s *Similarity) CollectSimilar(ctx context.Context, mol *chem.Molecule, threshold *float64) ([]string, error) {
	out := []string{}
	for uri, err := range s.FindSimilar(ctx, mol, threshold) {
		if err != nil {
			return nil, err
		}
		out = append(out, uri)
	}
	return out, nil
}
