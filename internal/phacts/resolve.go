package phacts

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/progress"
	"github.com/ops4go/phacts/internal/rdf"
)

// MinQueryLength is the shortest free-text query, in runes, sent to concept search.
const MinQueryLength = 3

// Resolver turns free text into concept entities.
type Resolver struct {
	remote  Remote
	metrics *metrics.OPSMetrics
	log     logger.Logger
}

// NewResolver returns a Resolver. metrics and log may be nil.
func NewResolver(remote Remote, m *metrics.OPSMetrics, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Global().Module("phacts").Module("resolve")
	}
	return &Resolver{remote: remote, metrics: m, log: log}
}

// NormalizeQuery trims text and converts it to Unicode NFC.
func NormalizeQuery(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// Resolve searches for concepts of kind matching text. No match gives an empty slice.
func (r *Resolver) Resolve(ctx context.Context, text string, kind Kind, monitor progress.Monitor) ([]EntityRecord, error) {
	monitor = progress.OrNull(monitor)

	text = NormalizeQuery(text)
	if n := utf8.RuneCountInString(text); n < MinQueryLength {
		return nil, invalidArgument("query %q is too short: need at least %d characters, got %d", text, MinQueryLength, n)
	}
	if !kind.Valid() {
		return nil, invalidArgument("unknown entity kind %d", int(kind))
	}

	label := "Searching ConceptWiki for: " + text
	monitor.Begin(label, progress.Unknown)
	monitor.SubTask(label)

	payload, err := r.remote.SearchConcepts(ctx, text, kind.Tag())
	if err != nil {
		return nil, err
	}

	rs, err := rdf.Parse(payload, conceptSearchQuery)
	if err != nil {
		r.metrics.RecordParseError("concept_search")
		return nil, parseError(err, "concept_search")
	}

	entities := make([]EntityRecord, 0, rs.Len())
	for _, row := range rs.Rows() {
		e := NewEntityRecord(row.Value("match"), row.Value("uuid"))
		if e.ID == "" {
			r.log.Debug("skipping concept without identifier", logger.String("match", e.DisplayName))
			continue
		}
		entities = append(entities, e)
	}

	r.metrics.RecordResolvedEntities(kind.String(), len(entities))
	r.log.Debug("resolved concepts",
		logger.String("query", text),
		logger.String("kind", kind.String()),
		logger.Int("count", len(entities)))
	return entities, nil
}
