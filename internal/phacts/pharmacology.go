package phacts

import (
	"strconv"
	"strings"

	"github.com/ops4go/phacts/internal/rdf"
)

// PharmacologyEntry is one activity record of a compound. Empty fields are absent.
type PharmacologyEntry struct {
	Type             string `json:"type,omitempty" yaml:"type,omitempty"`
	Relation         string `json:"relation,omitempty" yaml:"relation,omitempty"`
	Value            string `json:"value,omitempty" yaml:"value,omitempty"`
	Unit             string `json:"unit,omitempty" yaml:"unit,omitempty"`
	PChembl          string `json:"pchembl,omitempty" yaml:"pchembl,omitempty"`
	Comment          string `json:"comment,omitempty" yaml:"comment,omitempty"`
	AssayDescription string `json:"assay_description,omitempty" yaml:"assay_description,omitempty"`
}

func pharmacologyEntryFromRow(row rdf.Row) PharmacologyEntry {
	return PharmacologyEntry{
		Type:             row.Value("published_type"),
		Relation:         row.Value("published_relation"),
		Value:            row.Value("published_value"),
		Unit:             row.Value("published_unit"),
		PChembl:          row.Value("pchembl"),
		Comment:          row.Value("activity_comment"),
		AssayDescription: row.Value("assay_description"),
	}
}

// Key returns the property name of the entry: its assay description, or
// "pharmacology" followed by the 1-based ordinal.
func (p PharmacologyEntry) Key(ordinal int) string {
	if p.AssayDescription != "" {
		return p.AssayDescription
	}
	return "pharmacology" + strconv.Itoa(ordinal)
}

// String renders the activity, e.g. "IC50 = 10 nM (pChembl=8.0) ".
func (p PharmacologyEntry) String() string {
	var sb strings.Builder
	for _, s := range []string{p.Type, p.Relation, p.Value, p.Unit} {
		if s != "" {
			sb.WriteString(s)
			sb.WriteByte(' ')
		}
	}
	if p.PChembl != "" {
		sb.WriteString("(pChembl=" + p.PChembl + ") ")
	}
	if p.Comment != "" {
		sb.WriteString("Comment: " + p.Comment)
	}
	return sb.String()
}
