package testutil

// Canned linked data payloads for a single aspirin match.
const (
	ConceptBase   = "http://www.conceptwiki.org/concept/"
	AspirinID     = "38932552-111f-4a4e-a46a-4ed1d7bdf9d5"
	AspirinSMILES = "CC(=O)OC1=CC=CC=C1C(=O)O"
	AspirinInChI  = "InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)"

	// EmptyGraph parses but matches none of the pipeline's queries.
	EmptyGraph = `<http://example.org/s> <http://example.org/p> "o" .`

	SearchPayload = `@prefix api: <http://www.openphacts.org/api#> .
<` + ConceptBase + AspirinID + `> api:match "Aspirin" .
`
	CompoundPayload = `@prefix api: <http://www.openphacts.org/api#> .
<http://ops.rsc.org/OPS1> api:smiles "` + AspirinSMILES + `" ;
    api:inchi "` + AspirinInChI + `" ;
    api:logp "1.43" .
`
	ZeroCountPayload = `@prefix api: <http://www.openphacts.org/api#> .
<` + ConceptBase + AspirinID + `> api:compoundPharmacologyTotalResults "0" .
`
	MapPayload = `@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<` + ConceptBase + AspirinID + `> skos:exactMatch <http://rdf.ebi.ac.uk/resource/chembl/molecule/CHEMBL25> .
`
	SimilarityPayload = `@prefix ops: <http://www.openphacts.org/api/#> .
<http://ops.rsc.org/OPS2157> ops:relevance "1.0" .
<http://ops.rsc.org/OPS3321> ops:relevance "0.92" .
`
	InChIPayload = `<http://ops.rsc.org/OPS2157> <http://semanticscience.org/resource/CHEMINF_000396> "` + AspirinInChI + `" .
`
)
