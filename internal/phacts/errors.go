package phacts

import (
	"fmt"

	"github.com/ops4go/phacts/internal/errors"
)

// ErrSequenceConsumed is yielded when a single-pass similarity sequence is ranged a second time.
var ErrSequenceConsumed = errors.NewStd("similarity results already consumed")

func invalidArgument(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("phacts").
		Category(errors.CategoryValidation).
		Build()
}

// parseError wraps a payload that could not be interpreted.
func parseError(err error, query string) error {
	return errors.New(err).
		Component("phacts").
		Category(errors.CategoryRDFParse).
		Context("query", query).
		Build()
}

// entityError wraps a fatal failure with the entity it happened on. The
// category of err is kept.
func entityError(err error, kind Kind, e EntityRecord) error {
	return errors.New(fmt.Errorf("annotating %s %s: %w", kind, e.ID, err)).
		Component("phacts").
		Context("entity_id", e.ID).
		Context("kind", kind.String()).
		Build()
}
