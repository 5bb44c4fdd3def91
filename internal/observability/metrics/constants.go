// Package metrics provides constants used across metric definitions.
package metrics

// Operation label values for calls to the linked data API.
const (
	// OpSearchConcepts represents free-text concept searches.
	OpSearchConcepts = "search_concepts"
	// OpCompoundInfo represents compound record lookups.
	OpCompoundInfo = "compound_info"
	// OpTargetInfo represents target (protein) record lookups.
	OpTargetInfo = "target_info"
	// OpPharmacologyCount represents pharmacology count lookups.
	OpPharmacologyCount = "pharmacology_count"
	// OpPharmacologyPage represents pharmacology page fetches.
	OpPharmacologyPage = "pharmacology_page"
	// OpMapURI represents URI mapping lookups.
	OpMapURI = "map_uri"
	// OpSimilarity represents Tanimoto similarity searches.
	OpSimilarity = "similarity"
	// OpInChIToURI represents InChI to compound URI lookups.
	OpInChIToURI = "inchi_to_uri"
)

// Label value constants used for metric labels.
const (
	// LabelCompound is the kind label for compounds.
	LabelCompound = "compound"
	// LabelProtein is the kind label for proteins.
	LabelProtein = "protein"
	// OutcomeAnnotated marks an entity that produced a record.
	OutcomeAnnotated = "annotated"
	// OutcomeDropped marks an entity dropped for lack of usable data.
	OutcomeDropped = "dropped"
	// OutcomePlaceholder marks an entity replaced by a no-data placeholder after a 404.
	OutcomePlaceholder = "placeholder"
	// StatusTransportError is the status label for calls that got no HTTP response.
	StatusTransportError = "transport_error"
)

// Histogram bucket configuration constants.
// These define the base values and factors for exponential bucket generation.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~1s range).
	BucketStart1ms = 0.001
	// BucketStart100ms is the starting bucket for 100ms histograms (100ms to ~100s range).
	BucketStart100ms = 0.1
	// BucketStart100B is the starting bucket for 100 byte histograms (100B to ~100MB range).
	BucketStart100B = 100.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor10 is the exponential growth factor of 10 for larger ranges.
	BucketFactor10 = 10

	// BucketCount6 defines 6 exponential buckets.
	BucketCount6 = 6
	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
)
