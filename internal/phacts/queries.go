package phacts

import "github.com/ops4go/phacts/internal/rdf"

const (
	nsAPI      = "http://www.openphacts.org/api#"
	nsSKOS     = "http://www.w3.org/2004/02/skos/core#"
	nsDrugBank = "http://www4.wiwiss.fu-berlin.de/drugbank/resource/drugbank/"
	nsChEMBL   = "http://rdf.ebi.ac.uk/terms/chembl#"

	predRelevance   = "http://www.openphacts.org/api/#relevance"
	predDescription = "http://purl.org/dc/terms/description"
	predInChI       = "http://semanticscience.org/resource/CHEMINF_000396"
)

// optionalField projects one optional predicate of a subject into a property.
type optionalField struct {
	predicate string
	column    string
	property  string
}

var compoundFields = []optionalField{
	{nsAPI + "logp", "logp", "logp"},
	{nsAPI + "hba", "hba", "hba"},
	{nsAPI + "hbd", "hbd", "hbd"},
	{nsAPI + "ro5_violations", "ro5_violations", "ro5Violations"},
	{nsAPI + "psa", "psa", "psa"},
	{nsAPI + "rtb", "rtb", "rtb"},
	{nsAPI + "molweight", "molweight", "molweight"},
	{nsAPI + "molformula", "molformula", "molformula"},
}

var proteinFields = []optionalField{
	{nsDrugBank + "numberOfResidues", "residues", "residues"},
	{nsDrugBank + "theoreticalPi", "pi", "pi"},
}

// optionalGroups gives each field its own group so one missing value does
// not hide the others.
func optionalGroups(subject rdf.Term, fields []optionalField) [][]rdf.Pattern {
	groups := make([][]rdf.Pattern, 0, len(fields))
	for _, f := range fields {
		groups = append(groups, []rdf.Pattern{rdf.Triple(subject, rdf.IRI(f.predicate), rdf.Var(f.column))})
	}
	return groups
}

var (
	conceptSearchQuery = rdf.Query{
		Select: []string{"uuid", "match"},
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("uuid"), rdf.IRI(nsAPI+"match"), rdf.Var("match")),
		},
	}

	compoundInfoQuery = rdf.Query{
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("compound_uri"), rdf.IRI(nsAPI+"smiles"), rdf.Var("smiles")),
		},
		Optional: append([][]rdf.Pattern{
			{rdf.Triple(rdf.Var("compound_uri"), rdf.IRI(nsAPI+"inchi"), rdf.Var("inchi"))},
		}, optionalGroups(rdf.Var("compound_uri"), compoundFields)...),
	}

	proteinInfoQuery = rdf.Query{
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("uuid"), rdf.IRI(nsSKOS+"prefLabel"), rdf.Var("name")),
		},
		Optional: append([][]rdf.Pattern{
			{rdf.Triple(rdf.Var("uuid"), rdf.IRI(nsSKOS+"exactMatch"), rdf.Var("db_uri"))},
		}, optionalGroups(rdf.Var("db_uri"), proteinFields)...),
	}

	pharmacologyCountQuery = rdf.Query{
		Select: []string{"count"},
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("uuid"), rdf.IRI(nsAPI+"compoundPharmacologyTotalResults"), rdf.Var("count")),
		},
	}

	pharmacologyQuery = rdf.Query{
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"hasMolecule"), rdf.Var("chembl_compound_uri")),
			rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"hasAssay"), rdf.Var("assay_uri")),
		},
		Optional: [][]rdf.Pattern{
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"publishedType"), rdf.Var("published_type"))},
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"publishedRelation"), rdf.Var("published_relation"))},
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"publishedValue"), rdf.Var("published_value"))},
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"publishedUnits"), rdf.Var("published_unit"))},
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"pChembl"), rdf.Var("pchembl"))},
			{rdf.Triple(rdf.Var("item"), rdf.IRI(nsChEMBL+"activityComment"), rdf.Var("activity_comment"))},
			{rdf.Triple(rdf.Var("assay_uri"), rdf.IRI(predDescription), rdf.Var("assay_description"))},
		},
	}

	exactMatchQuery = rdf.Query{
		Select: []string{"match"},
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("concept"), rdf.IRI(nsSKOS+"exactMatch"), rdf.Var("match")),
		},
	}

	similarityQuery = rdf.Query{
		Select: []string{"compound", "relevance"},
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("compound"), rdf.IRI(predRelevance), rdf.Var("relevance")),
		},
	}

	compoundURIQuery = rdf.Query{
		Select: []string{"compound"},
		Where: []rdf.Pattern{
			rdf.Triple(rdf.Var("compound"), rdf.IRI(predInChI), rdf.Var("inchi")),
		},
	}
)
