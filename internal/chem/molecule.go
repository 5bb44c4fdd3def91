// Package chem is the chemistry toolkit behind structure lookups: it turns SMILES
// into molecules, renders them back, and exposes their InChI identifier.
package chem

import (
	"fmt"

	"github.com/ops4go/phacts/internal/errors"
)

// Toolkit is the chemistry collaborator used by the similarity and structure stages.
type Toolkit interface {
	// ParseSMILES validates smiles and returns the molecule it describes.
	ParseSMILES(smiles string) (*Molecule, error)
	// CanonicalSMILES renders mol as SMILES for remote structure searches.
	CanonicalSMILES(mol *Molecule) (string, error)
	// InChI returns the InChI identifier of mol.
	InChI(mol *Molecule) (string, error)
}

// Atom is one atom of a parsed SMILES string.
type Atom struct {
	Symbol   string
	Aromatic bool
	Isotope  int
	Charge   int
	HCount   int  // explicit hydrogens from a bracket atom
	Bracket  bool // written in brackets, so no implicit hydrogens apply
}

// BondOrder is the order of a bond as written in SMILES.
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// Bond connects two atoms by index.
type Bond struct {
	From, To int
	Order    BondOrder
}

// Molecule is a parsed structure. InChI is empty until set from a remote record
// or by the caller.
type Molecule struct {
	SMILES string
	InChI  string
	Atoms  []Atom
	Bonds  []Bond
}

// SetInChI records the InChI identifier of the molecule.
func (m *Molecule) SetInChI(inchi string) {
	m.InChI = inchi
}

// HeavyAtoms returns the number of atoms in the structure. Hydrogens are not counted.
func (m *Molecule) HeavyAtoms() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			n++
		}
	}
	return n
}

// StructureError reports a structure that could not be parsed or identified.
type StructureError struct {
	Input  string
	Pos    int // byte offset in Input, -1 when not positional
	Reason string
}

func (e *StructureError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("invalid structure %q at position %d: %s", e.Input, e.Pos, e.Reason)
	}
	return fmt.Sprintf("invalid structure %q: %s", e.Input, e.Reason)
}

func structureError(input string, pos int, reason string) error {
	return errors.New(&StructureError{Input: input, Pos: pos, Reason: reason}).
		Component("chem").
		Category(errors.CategoryStructure).
		Build()
}
