package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/k3a/html2text"

	"github.com/ops4go/phacts/internal/phacts"
)

type textEncoder struct {
	w io.Writer
}

func (e *textEncoder) Encode(v any) error {
	switch v := v.(type) {
	case []phacts.EntityRecord:
		return e.entities(v)
	case []phacts.AnnotatedCompound:
		return e.compounds(v)
	case []phacts.AnnotatedProtein:
		return e.proteins(v)
	case []string:
		for _, s := range v {
			if _, err := fmt.Fprintln(e.w, s); err != nil {
				return err
			}
		}
		return nil
	case fmt.Stringer:
		_, err := fmt.Fprintln(e.w, v.String())
		return err
	default:
		_, err := fmt.Fprintln(e.w, v)
		return err
	}
}

func (e *textEncoder) entities(records []phacts.EntityRecord) error {
	tw := tabwriter.NewWriter(e.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.DisplayName)
	}
	return tw.Flush()
}

func (e *textEncoder) compounds(compounds []phacts.AnnotatedCompound) error {
	for i, c := range compounds {
		if i > 0 {
			fmt.Fprintln(e.w)
		}
		fmt.Fprintf(e.w, "%s (%s)\n", c.Entity.DisplayName, c.Entity.ID)
		if c.NoData {
			fmt.Fprintln(e.w, "  no data")
			continue
		}
		props := map[string]string{"smiles": c.SMILES}
		if c.InChI != "" {
			props["inchi"] = c.InChI
		}
		maps.Copy(props, c.Properties)
		if err := e.properties(props); err != nil {
			return err
		}
	}
	return nil
}

func (e *textEncoder) proteins(proteins []phacts.AnnotatedProtein) error {
	for i, p := range proteins {
		if i > 0 {
			fmt.Fprintln(e.w)
		}
		name := p.Name
		if name == "" {
			name = p.Entity.DisplayName
		}
		fmt.Fprintf(e.w, "%s (%s)\n", name, p.Entity.ID)
		if p.NoData {
			fmt.Fprintln(e.w, "  no data")
			continue
		}
		if err := e.properties(p.Properties); err != nil {
			return err
		}
	}
	return nil
}

// properties writes props sorted by key. Assay descriptions and comments
// from ChEMBL can carry markup, so keys and values are reduced to plain text.
func (e *textEncoder) properties(props map[string]string) error {
	tw := tabwriter.NewWriter(e.w, 0, 4, 1, ' ', 0)
	for _, k := range slices.Sorted(maps.Keys(props)) {
		fmt.Fprintf(tw, "  %s:\t%s\n", plain(k), plain(props[k]))
	}
	return tw.Flush()
}

func plain(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return strings.TrimSpace(html2text.HTML2Text(s))
}
