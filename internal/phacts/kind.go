package phacts

import "strings"

// Kind is the type of concept an entity search is restricted to.
type Kind int

const (
	KindCompound Kind = iota + 1
	KindProtein
)

// Concept type tags understood by the concept search service.
const (
	TagChemicalViewedStructurally = "07a84994-e464-4bbf-812a-a4b96fa3d197"
	TagAminoAcidPeptideOrProtein  = "eeaec894-d856-4106-9fa1-662b1dc6c6f1"
)

// ParseKind accepts "compound" or "protein" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compound", "compounds":
		return KindCompound, nil
	case "protein", "proteins":
		return KindProtein, nil
	default:
		return 0, invalidArgument("unknown entity kind %q, expected compound or protein", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindCompound:
		return "compound"
	case KindProtein:
		return "protein"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k == KindCompound || k == KindProtein
}

// Tag returns the concept type tag for k, or "" for an invalid kind.
func (k Kind) Tag() string {
	switch k {
	case KindCompound:
		return TagChemicalViewedStructurally
	case KindProtein:
		return TagAminoAcidPeptideOrProtein
	default:
		return ""
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, invalidArgument("invalid entity kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
