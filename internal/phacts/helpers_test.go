package phacts

import (
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/httpclient"
)

const (
	testEndpoint = "https://ops.example.org/1.3/"
	conceptBase  = "http://www.conceptwiki.org/concept/"

	aspirinSMILES = "CC(=O)OC1=CC=CC=C1C(=O)O"
	aspirinInChI  = "InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)"
)

// fakeOPS answers linked data API calls from per-path, per-URI payloads and
// records every request. A missing payload answers 404.
type fakeOPS struct {
	transport *httpmock.MockTransport

	mu       sync.Mutex
	requests []*url.URL
	payloads map[string]map[string]string // path -> uri -> body
	status   map[string]int               // path -> forced status
}

func newFakeOPS() *fakeOPS {
	f := &fakeOPS{
		transport: httpmock.NewMockTransport(),
		payloads:  make(map[string]map[string]string),
		status:    make(map[string]int),
	}
	f.transport.RegisterNoResponder(f.respond)
	return f
}

func (f *fakeOPS) set(path, uri, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payloads[path] == nil {
		f.payloads[path] = make(map[string]string)
	}
	f.payloads[path][uri] = body
}

func (f *fakeOPS) fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = status
}

func (f *fakeOPS) respond(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req.URL)
	path := req.URL.Path
	if status, ok := f.status[path]; ok {
		return httpmock.NewStringResponse(status, http.StatusText(status)), nil
	}

	q := req.URL.Query()
	key := q.Get("uri")
	for _, alt := range []string{"Uri", "q", "inchi", "searchOptions.Molecule"} {
		if key == "" {
			key = q.Get(alt)
		}
	}
	body, ok := f.payloads[path][key]
	if !ok {
		return httpmock.NewStringResponse(http.StatusNotFound, "No results"), nil
	}
	return httpmock.NewStringResponse(http.StatusOK, body), nil
}

// calls returns the recorded requests whose path is path, or all requests when path is "".
func (f *fakeOPS) calls(path string) []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*url.URL
	for _, u := range f.requests {
		if path == "" || u.Path == path {
			out = append(out, u)
		}
	}
	return out
}

func newTestService(t *testing.T, f *fakeOPS) *Service {
	t.Helper()
	settings := conf.Defaults()
	settings.OpenPHACTS.Endpoint = testEndpoint
	settings.OpenPHACTS.AppID = "test-id"
	settings.OpenPHACTS.AppKey = "test-key"

	hc := httpclient.New(&httpclient.Config{Transport: f.transport})
	svc, err := NewService(Config{Settings: settings, HTTP: hc})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

const (
	pathSearch     = "/1.3/search/byTag"
	pathCompound   = "/1.3/compound"
	pathTarget     = "/1.3/target"
	pathCount      = "/1.3/compound/pharmacology/count"
	pathPages      = "/1.3/compound/pharmacology/pages"
	pathMapURI     = "/1.3/mapUri"
	pathSimilarity = "/1.3/structure/tanimotoSimilarity"
	pathStructure  = "/1.3/structure"
)

func searchPayload(matches map[string]string) string {
	body := "@prefix api: <http://www.openphacts.org/api#> .\n"
	for id, match := range matches {
		body += "<" + conceptBase + id + "> api:match \"" + match + "\" .\n"
	}
	return body
}

func compoundPayload(smiles string) string {
	return `@prefix api: <http://www.openphacts.org/api#> .
<http://ops.rsc.org/OPS1> api:smiles "` + smiles + `" ;
    api:inchi "` + aspirinInChI + `" ;
    api:logp "1.43" ;
    api:ro5_violations "0" ;
    api:molformula "C9H8O4" .
`
}

func countPayload(id, count string) string {
	return `@prefix api: <http://www.openphacts.org/api#> .
<` + conceptBase + id + `> api:compoundPharmacologyTotalResults "` + count + `" .
`
}

const pharmacologyPayload = `@prefix chembl: <http://rdf.ebi.ac.uk/terms/chembl#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

<http://rdf.ebi.ac.uk/resource/chembl/activity/A1> chembl:hasMolecule <http://rdf.ebi.ac.uk/resource/chembl/molecule/M1> ;
    chembl:hasAssay <http://rdf.ebi.ac.uk/resource/chembl/assay/AS1> ;
    chembl:publishedType "IC50" ;
    chembl:publishedRelation "=" ;
    chembl:publishedValue "10" ;
    chembl:publishedUnits "nM" ;
    chembl:pChembl "8.0" .

<http://rdf.ebi.ac.uk/resource/chembl/activity/A2> chembl:hasMolecule <http://rdf.ebi.ac.uk/resource/chembl/molecule/M1> ;
    chembl:hasAssay <http://rdf.ebi.ac.uk/resource/chembl/assay/AS2> ;
    chembl:publishedType "Ki" ;
    chembl:activityComment "inactive" .

<http://rdf.ebi.ac.uk/resource/chembl/assay/AS2> dcterms:description "Binding to COX-1" .
`

func proteinPayload(id, name string) string {
	return `@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix db: <http://www4.wiwiss.fu-berlin.de/drugbank/resource/drugbank/> .

<` + conceptBase + id + `> skos:prefLabel "` + name + `" ;
    skos:exactMatch <http://www4.wiwiss.fu-berlin.de/drugbank/resource/targets/` + id + `> .

<http://www4.wiwiss.fu-berlin.de/drugbank/resource/targets/` + id + `> db:numberOfResidues "599" ;
    db:theoreticalPi "7.2" .
`
}

const emptyGraph = `<http://example.org/s> <http://example.org/p> "o" .
`
