package chem

import "strings"

// Builtin is the default Toolkit. It validates SMILES syntax and keeps the
// normalized input as the molecule's SMILES; it does not compute a canonical
// atom ranking or derive InChI from structure.
type Builtin struct{}

var _ Toolkit = Builtin{}

// ParseSMILES parses the first whitespace-separated field of smiles.
func (Builtin) ParseSMILES(smiles string) (*Molecule, error) {
	return parseSMILES(smiles)
}

// CanonicalSMILES returns the normalized SMILES the molecule was parsed from.
func (Builtin) CanonicalSMILES(mol *Molecule) (string, error) {
	if mol == nil || mol.SMILES == "" {
		return "", structureError("", -1, "molecule has no SMILES")
	}
	return mol.SMILES, nil
}

// InChI returns the identifier recorded on the molecule.
func (Builtin) InChI(mol *Molecule) (string, error) {
	if mol == nil {
		return "", structureError("", -1, "nil molecule")
	}
	if !strings.HasPrefix(mol.InChI, "InChI=") {
		return "", structureError(mol.SMILES, -1, "no InChI recorded for molecule")
	}
	return mol.InChI, nil
}
