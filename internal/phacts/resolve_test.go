package phacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/progress"
)

func TestResolveRejectsShortQueries(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	svc := newTestService(t, f)

	for _, q := range []string{"", "a", "ab", "  ab  ", "ée"} {
		_, err := svc.SearchCompounds(t.Context(), q, nil)
		require.Error(t, err, "query %q", q)
		assert.True(t, errors.IsInvalidArgument(err), "query %q: %v", q, err)
	}
	assert.Empty(t, f.calls(""), "no request may be sent for a short query")
}

func TestResolveRejectsInvalidKind(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	svc := newTestService(t, f)

	for _, k := range []Kind{0, Kind(7)} {
		_, err := svc.Search(t.Context(), "aspirin", k, nil)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	}
	assert.Empty(t, f.calls(""))

	_, err := ParseKind("gene")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	k, err := ParseKind(" Protein ")
	require.NoError(t, err)
	assert.Equal(t, KindProtein, k)
	assert.Equal(t, TagAminoAcidPeptideOrProtein, k.Tag())
	assert.Equal(t, TagChemicalViewedStructurally, KindCompound.Tag())
}

func TestResolveSendsKindTag(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathSearch, "cyclooxygenase", searchPayload(map[string]string{"P1": "Cyclooxygenase-1"}))
	svc := newTestService(t, f)

	tracker := progress.NewTracker(nil)
	entities, err := svc.SearchProteins(t.Context(), "  cyclooxygenase ", tracker)
	require.NoError(t, err)
	assert.Equal(t, []EntityRecord{{DisplayName: "Cyclooxygenase-1", ID: "P1"}}, entities)

	calls := f.calls(pathSearch)
	require.Len(t, calls, 1)
	assert.Equal(t, TagAminoAcidPeptideOrProtein, calls[0].Query().Get("uuid"))
	assert.Equal(t, "cyclooxygenase", calls[0].Query().Get("q"), "query text is trimmed")
	assert.Equal(t, "Searching ConceptWiki for: cyclooxygenase", tracker.Snapshot().Task)
}

func TestResolveNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathSearch, "unobtainium", emptyGraph)
	svc := newTestService(t, f)

	entities, err := svc.SearchCompounds(t.Context(), "unobtainium", nil)
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.NotNil(t, entities)
}

func TestResolveMalformedPayload(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathSearch, "aspirin", "<http://a> <http://b> .")
	svc := newTestService(t, f)

	_, err := svc.SearchCompounds(t.Context(), "aspirin", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRDFParse))
}

func TestEntityRecordURI(t *testing.T) {
	t.Parallel()

	e := NewEntityRecord("aspirin", "http://www.conceptwiki.org/concept/12345")
	assert.Equal(t, "12345", e.ID)
	assert.Equal(t, "http://www.conceptwiki.org/concept/12345", e.URI("http://www.conceptwiki.org/concept/"))
	assert.Equal(t, "http://concepts.example.org/12345", e.URI("http://concepts.example.org"))

	assert.Equal(t, "abc", NewEntityRecord("", "abc").ID)
	assert.Equal(t, "x", NewEntityRecord("", "http://a/b/x/").ID)
}
