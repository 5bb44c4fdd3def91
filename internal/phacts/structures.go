package phacts

import (
	"context"

	"github.com/ops4go/phacts/internal/chem"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/rdf"
)

// Structures looks up the compound URI for a structure.
type Structures struct {
	remote  Remote
	toolkit chem.Toolkit
	metrics *metrics.OPSMetrics
}

// NewStructures returns a Structures stage. A nil toolkit uses chem.Builtin.
func NewStructures(remote Remote, toolkit chem.Toolkit, m *metrics.OPSMetrics) *Structures {
	if toolkit == nil {
		toolkit = chem.Builtin{}
	}
	return &Structures{remote: remote, toolkit: toolkit, metrics: m}
}

// ResolveURI returns the compound URI registered for the InChI of mol. ok is
// false when the service knows no compound for it. A molecule without an
// InChI gives a structure error.
func (s *Structures) ResolveURI(ctx context.Context, mol *chem.Molecule) (uri string, ok bool, err error) {
	inchi, err := s.toolkit.InChI(mol)
	if err != nil {
		return "", false, err
	}

	payload, err := s.remote.InChIToURI(ctx, inchi)
	if err != nil {
		return "", false, err
	}
	rs, err := rdf.Parse(payload, compoundURIQuery)
	if err != nil {
		s.metrics.RecordParseError("compound_uri")
		return "", false, parseError(err, "compound_uri")
	}

	uri, ok = rs.Get(0, "compound")
	return uri, ok, nil
}
