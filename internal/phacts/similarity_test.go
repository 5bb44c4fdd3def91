package phacts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/chem"
	"github.com/ops4go/phacts/internal/errors"
)

const similarityPayload = `@prefix ops: <http://www.openphacts.org/api/#> .
<http://ops.rsc.org/OPS2157> ops:relevance "1.0" .
<http://ops.rsc.org/OPS3321> ops:relevance "0.92" .
<http://ops.rsc.org/OPS0042> ops:relevance "0.81" .
`

var similarURIs = []string{
	"http://ops.rsc.org/OPS2157",
	"http://ops.rsc.org/OPS3321",
	"http://ops.rsc.org/OPS0042",
}

func aspirin(t *testing.T) *chem.Molecule {
	t.Helper()
	mol, err := chem.Builtin{}.ParseSMILES(aspirinSMILES)
	require.NoError(t, err)
	return mol
}

func TestFindSimilarDefaultThreshold(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathSimilarity, aspirinSMILES, similarityPayload)
	svc := newTestService(t, f)
	mol := aspirin(t)

	withDefault, err := svc.CollectSimilar(t.Context(), mol, nil)
	require.NoError(t, err)
	explicit := 0.8
	withExplicit, err := svc.CollectSimilar(t.Context(), mol, &explicit)
	require.NoError(t, err)

	assert.Equal(t, similarURIs, withDefault)
	assert.Equal(t, withDefault, withExplicit)

	calls := f.calls(pathSimilarity)
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.Equal(t, "0.8", c.Query().Get("searchOptions.Threshold"))
		assert.Equal(t, aspirinSMILES, c.Query().Get("searchOptions.Molecule"))
	}
}

func TestSimilarityThresholdFallback(t *testing.T) {
	t.Parallel()

	s := NewSimilarity(nil, nil, 0, nil)
	for _, v := range []float64{0, -0.5, 1.5, math.NaN()} {
		assert.InDelta(t, 0.8, s.Threshold(&v), 0, "threshold %v", v)
	}
	valid := 0.65
	assert.InDelta(t, 0.65, s.Threshold(&valid), 0)
	assert.InDelta(t, 0.8, s.Threshold(nil), 0)

	configured := NewSimilarity(nil, nil, 0.9, nil)
	assert.InDelta(t, 0.9, configured.Threshold(nil), 0)
}

func TestFindSimilarIsLazyAndSinglePass(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathSimilarity, aspirinSMILES, similarityPayload)
	svc := newTestService(t, f)

	seq := svc.FindSimilar(t.Context(), aspirin(t), nil)
	assert.Empty(t, f.calls(""), "nothing is fetched before ranging")

	var first []string
	for uri, err := range seq {
		require.NoError(t, err)
		first = append(first, uri)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, similarURIs[:2], first)

	var errs []error
	for uri, err := range seq {
		assert.Empty(t, uri)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrSequenceConsumed)
	assert.Len(t, f.calls(pathSimilarity), 1)
}

func TestFindSimilarSurfacesErrors(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.fail(pathSimilarity, 503)
	svc := newTestService(t, f)

	_, err := svc.CollectSimilar(t.Context(), aspirin(t), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))

	_, err = svc.CollectSimilar(t.Context(), &chem.Molecule{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryStructure))
}

func TestResolveURIForStructure(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathStructure, aspirinInChI, `@prefix cheminf: <http://semanticscience.org/resource/> .
<http://ops.rsc.org/OPS2157> cheminf:CHEMINF_000396 "`+aspirinInChI+`" .
`)
	f.set(pathStructure, "InChI=1S/CH4/h1H4", emptyGraph)
	svc := newTestService(t, f)

	mol := aspirin(t)
	_, _, err := svc.ResolveURIForStructure(t.Context(), mol)
	require.Error(t, err, "a molecule without InChI cannot be looked up")
	var se *chem.StructureError
	assert.ErrorAs(t, err, &se)
	assert.Empty(t, f.calls(""))

	mol.SetInChI(aspirinInChI)
	uri, ok, err := svc.ResolveURIForStructure(t.Context(), mol)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://ops.rsc.org/OPS2157", uri)

	methane, err := chem.Builtin{}.ParseSMILES("C")
	require.NoError(t, err)
	methane.SetInChI("InChI=1S/CH4/h1H4")
	uri, ok, err = svc.ResolveURIForStructure(t.Context(), methane)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, uri)
}

func TestMapURI(t *testing.T) {
	t.Parallel()

	f := newFakeOPS()
	f.set(pathMapURI, "http://www.conceptwiki.org/concept/12345", `@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<http://www.conceptwiki.org/concept/12345> skos:exactMatch <http://rdf.ebi.ac.uk/resource/chembl/molecule/CHEMBL25> ,
    <http://ops.rsc.org/OPS2157> .
`)
	f.set(pathMapURI, "http://example.org/lonely", emptyGraph)
	svc := newTestService(t, f)

	matches, err := svc.MapURI(t.Context(), "http://www.conceptwiki.org/concept/12345")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://rdf.ebi.ac.uk/resource/chembl/molecule/CHEMBL25",
		"http://ops.rsc.org/OPS2157",
	}, matches)

	matches, err = svc.MapURI(t.Context(), "http://example.org/lonely")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)

	_, err = svc.MapURI(t.Context(), "  ")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = svc.MapURI(t.Context(), "http://example.org/unknown")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
