package phacts

import "strings"

// EntityRecord identifies a resolved concept by display name and opaque ID.
type EntityRecord struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	ID          string `json:"id" yaml:"id"`
}

// NewEntityRecord builds a record from a concept URI, keeping the segment after its last '/'.
func NewEntityRecord(displayName, conceptURI string) EntityRecord {
	return EntityRecord{DisplayName: displayName, ID: conceptID(conceptURI)}
}

// URI returns the concept URI of the entity under base.
func (e EntityRecord) URI(base string) string {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + e.ID
}

func conceptID(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
