package phacts

import (
	"context"
	"strings"

	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/rdf"
)

// Mapper finds URIs equivalent to a given URI across the integrated datasets.
type Mapper struct {
	remote  Remote
	metrics *metrics.OPSMetrics
}

// NewMapper returns a Mapper. m may be nil.
func NewMapper(remote Remote, m *metrics.OPSMetrics) *Mapper {
	return &Mapper{remote: remote, metrics: m}
}

// MapURI returns the exact matches of uri in parse order, or an empty slice.
func (m *Mapper) MapURI(ctx context.Context, uri string) ([]string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, invalidArgument("URI to map must not be empty")
	}

	payload, err := m.remote.MapURI(ctx, uri)
	if err != nil {
		return nil, err
	}
	rs, err := rdf.Parse(payload, exactMatchQuery)
	if err != nil {
		m.metrics.RecordParseError("exact_matches")
		return nil, parseError(err, "exact_matches")
	}

	matches := rs.Column("match")
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}
