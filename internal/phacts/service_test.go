package phacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/errors"
)

func TestEndpointChangesApplyToNextCall(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	svc := newTestService(t, f)
	assert.Equal(t, testEndpoint, svc.Endpoint())

	_, _ = svc.SearchCompounds(t.Context(), "aspirin", nil)
	require.NoError(t, svc.SetEndpoint("https://mirror.example.org/ops"))
	assert.Equal(t, "https://mirror.example.org/ops/", svc.Endpoint())
	_, _ = svc.SearchCompounds(t.Context(), "aspirin", nil)

	calls := f.calls("")
	require.Len(t, calls, 2)
	assert.Equal(t, "ops.example.org", calls[0].Host)
	assert.Equal(t, "mirror.example.org", calls[1].Host)
	assert.Equal(t, "/ops/search/byTag", calls[1].Path)
}

func TestConceptBaseChangesEntityURIs(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	svc := newTestService(t, f)
	assert.Equal(t, conceptBase, svc.ConceptBase())

	require.NoError(t, svc.SetConceptBase("http://concepts.example.org/c"))
	_, err := svc.ProteinAnnotations(t.Context(), []EntityRecord{{ID: "P9"}}, nil)
	require.NoError(t, err)

	calls := f.calls(pathTarget)
	require.Len(t, calls, 1)
	assert.Equal(t, "http://concepts.example.org/c/P9", calls[0].Query().Get("uri"))
}

func TestSetEndpointRejectsInvalidURLs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeOPS())
	for _, raw := range []string{"", "ftp://ops.example.org/", "not a url", "/relative/path"} {
		err := svc.SetEndpoint(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.IsInvalidArgument(err), raw)
	}
	assert.Equal(t, testEndpoint, svc.Endpoint())
}

func TestDefaultService(t *testing.T) {
	f := newFakeOPS()
	svc := newTestService(t, f)

	prev := SetDefault(svc)
	t.Cleanup(func() { SetDefault(prev) })
	assert.Same(t, svc, Default())
}
