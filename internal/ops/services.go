package ops

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ops4go/phacts/internal/observability/metrics"
)

// SearchConcepts runs a free-text concept search restricted to the concept type tag.
func (c *Client) SearchConcepts(ctx context.Context, text, tag string) (string, error) {
	if strings.TrimSpace(tag) == "" {
		return "", invalidArgument("concept type tag must not be empty")
	}
	if text == "" {
		return "", invalidArgument("search text must not be empty")
	}
	return c.get(ctx, metrics.OpSearchConcepts, "search/byTag", url.Values{
		"q":    {text},
		"uuid": {tag},
	})
}

// CompoundInfo fetches the compound record for a concept URI.
func (c *Client) CompoundInfo(ctx context.Context, uri string) (string, error) {
	if uri == "" {
		return "", invalidArgument("compound URI must not be empty")
	}
	return c.get(ctx, metrics.OpCompoundInfo, "compound", url.Values{"uri": {uri}})
}

// TargetInfo fetches the target (protein) record for a concept URI.
func (c *Client) TargetInfo(ctx context.Context, uri string) (string, error) {
	if uri == "" {
		return "", invalidArgument("target URI must not be empty")
	}
	return c.get(ctx, metrics.OpTargetInfo, "target", url.Values{"uri": {uri}})
}

// PharmacologyCount fetches the number of pharmacology records for a compound.
func (c *Client) PharmacologyCount(ctx context.Context, uri string) (string, error) {
	if uri == "" {
		return "", invalidArgument("compound URI must not be empty")
	}
	return c.get(ctx, metrics.OpPharmacologyCount, "compound/pharmacology/count", url.Values{"uri": {uri}})
}

// PharmacologyPage fetches one page of pharmacology records for a compound. Pages start at 1.
func (c *Client) PharmacologyPage(ctx context.Context, uri string, page, pageSize int) (string, error) {
	switch {
	case uri == "":
		return "", invalidArgument("compound URI must not be empty")
	case page < 1:
		return "", invalidArgument("page must be at least 1, got %d", page)
	case pageSize < 1:
		return "", invalidArgument("page size must be at least 1, got %d", pageSize)
	}
	return c.get(ctx, metrics.OpPharmacologyPage, "compound/pharmacology/pages", url.Values{
		"uri":       {uri},
		"_page":     {strconv.Itoa(page)},
		"_pageSize": {strconv.Itoa(pageSize)},
	})
}

// MapURI fetches the URIs equivalent to uri across the integrated datasets.
func (c *Client) MapURI(ctx context.Context, uri string) (string, error) {
	if uri == "" {
		return "", invalidArgument("URI must not be empty")
	}
	return c.get(ctx, metrics.OpMapURI, "mapUri", url.Values{"Uri": {uri}})
}

// Similarity runs a Tanimoto similarity search for smiles at the given threshold.
func (c *Client) Similarity(ctx context.Context, smiles string, threshold float64) (string, error) {
	if smiles == "" {
		return "", invalidArgument("SMILES must not be empty")
	}
	return c.get(ctx, metrics.OpSimilarity, "structure/tanimotoSimilarity", url.Values{
		"searchOptions.Molecule":  {smiles},
		"searchOptions.Threshold": {strconv.FormatFloat(threshold, 'f', -1, 64)},
	})
}

// InChIToURI looks up the compound URI for an InChI identifier.
func (c *Client) InChIToURI(ctx context.Context, inchi string) (string, error) {
	if inchi == "" {
		return "", invalidArgument("InChI must not be empty")
	}
	return c.get(ctx, metrics.OpInChIToURI, "structure", url.Values{"inchi": {inchi}})
}
