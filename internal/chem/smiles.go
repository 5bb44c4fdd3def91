package chem

import (
	"strconv"
	"strings"
)

// organicSubset lists the atoms that may appear outside brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

var aromaticOrganic = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
}

var aromaticBracket = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
	"se": true, "as": true, "te": true,
}

var chiralClasses = map[string]bool{"TH": true, "AL": true, "SP": true, "TB": true, "OH": true}

var elements = func() map[string]bool {
	const table = "H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca Sc Ti V Cr Mn Fe Co Ni Cu Zn " +
		"Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd " +
		"Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg Tl Pb Bi Po At Rn Fr Ra Ac Th " +
		"Pa U Np Pu Am Cm Bk Cf Es Fm Md No Lr Rf Db Sg Bh Hs Mt Ds Rg Cn Nh Fl Mc Lv Ts Og"
	m := make(map[string]bool)
	for _, sym := range strings.Fields(table) {
		m[sym] = true
	}
	return m
}()

// ringBond is an open ring closure waiting for its partner.
type ringBond struct {
	atom  int
	order BondOrder
	set   bool // bond symbol given at the opening digit
	pos   int
}

type smilesParser struct {
	input string
	pos   int
	mol   *Molecule

	prev        int // index of the atom new atoms bond to, -1 at a component start
	pendingBond BondOrder
	pendingSet  bool
	branches    []int
	rings       map[int]ringBond
}

// parseSMILES reads the first whitespace-separated field of input as SMILES.
func parseSMILES(input string) (*Molecule, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, structureError(input, -1, "empty SMILES")
	}
	p := &smilesParser{
		input: fields[0],
		mol:   &Molecule{SMILES: fields[0]},
		prev:  -1,
		rings: make(map[int]ringBond),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

func (p *smilesParser) fail(reason string) error {
	return structureError(p.input, p.pos, reason)
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail("branch before any atom")
			}
			if p.pendingSet {
				return p.fail("bond before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("unbalanced ')'")
			}
			if p.pendingSet {
				return p.fail("dangling bond at end of branch")
			}
			if p.pos > 0 && p.input[p.pos-1] == '(' {
				return p.fail("empty branch")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.prev < 0 || p.pendingSet || len(p.branches) > 0 {
				return p.fail("misplaced '.'")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.pendingSet {
				return p.fail("consecutive bond symbols")
			}
			if p.prev < 0 {
				return p.fail("bond before any atom")
			}
			p.pendingBond = bondFor(c)
			p.pendingSet = true
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	switch {
	case p.pendingSet:
		return p.fail("dangling bond at end of input")
	case len(p.branches) > 0:
		return p.fail("unclosed branch")
	case len(p.rings) > 0:
		first := -1
		for n, rb := range p.rings {
			if first < 0 || rb.pos < p.rings[first].pos {
				first = n
			}
		}
		p.pos = p.rings[first].pos
		return p.fail("unclosed ring " + strconv.Itoa(first))
	case len(p.mol.Atoms) == 0:
		return p.fail("no atoms")
	}
	return nil
}

func bondFor(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default:
		return BondSingle
	}
}

// addAtom appends a and bonds it to the previous atom, if any.
func (p *smilesParser) addAtom(a Atom) {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)
	if p.prev >= 0 {
		p.mol.Bonds = append(p.mol.Bonds, Bond{From: p.prev, To: idx, Order: p.bondOrder(p.prev, idx)})
	}
	p.pendingSet = false
	p.prev = idx
}

// bondOrder resolves the pending bond symbol, defaulting to aromatic between aromatic atoms.
func (p *smilesParser) bondOrder(from, to int) BondOrder {
	if p.pendingSet {
		return p.pendingBond
	}
	if p.mol.Atoms[from].Aromatic && p.mol.Atoms[to].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *smilesParser) organicAtom() error {
	rest := p.input[p.pos:]
	if len(rest) >= 2 && organicSubset[rest[:2]] {
		p.addAtom(Atom{Symbol: rest[:2]})
		p.pos += 2
		return nil
	}
	sym := rest[:1]
	switch {
	case organicSubset[sym]:
		p.addAtom(Atom{Symbol: sym})
	case aromaticOrganic[sym]:
		p.addAtom(Atom{Symbol: strings.ToUpper(sym), Aromatic: true})
	case sym == "*":
		p.addAtom(Atom{Symbol: "*"})
	default:
		return p.fail("unexpected character '" + sym + "'")
	}
	p.pos++
	return nil
}

func (p *smilesParser) ringClosure() error {
	if p.prev < 0 {
		return p.fail("ring closure before any atom")
	}
	start := p.pos
	var n int
	if p.input[p.pos] == '%' {
		if p.pos+2 >= len(p.input) || !isDigit(p.input[p.pos+1]) || !isDigit(p.input[p.pos+2]) {
			return p.fail("'%' must be followed by two digits")
		}
		n, _ = strconv.Atoi(p.input[p.pos+1 : p.pos+3])
		p.pos += 3
	} else {
		n = int(p.input[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringBond{atom: p.prev, order: p.pendingBond, set: p.pendingSet, pos: start}
		p.pendingSet = false
		return nil
	}

	delete(p.rings, n)
	if open.atom == p.prev {
		p.pos = start
		return p.fail("ring closure to the same atom")
	}
	order := BondSingle
	switch {
	case open.set && p.pendingSet && open.order != p.pendingBond:
		p.pos = start
		return p.fail("conflicting ring closure bonds")
	case open.set:
		order = open.order
	case p.pendingSet:
		order = p.pendingBond
	case p.mol.Atoms[open.atom].Aromatic && p.mol.Atoms[p.prev].Aromatic:
		order = BondAromatic
	}
	p.mol.Bonds = append(p.mol.Bonds, Bond{From: open.atom, To: p.prev, Order: order})
	p.pendingSet = false
	return nil
}

// bracketAtom parses [isotope? symbol chiral? hcount? charge? class?].
func (p *smilesParser) bracketAtom() error {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return p.fail("unclosed '['")
	}
	body := p.input[p.pos+1 : p.pos+end]
	atom, reason := parseBracketBody(body)
	if reason != "" {
		return p.fail(reason)
	}
	p.addAtom(atom)
	p.pos += end + 1
	return nil
}

func parseBracketBody(body string) (Atom, string) {
	a := Atom{Bracket: true}
	i := 0

	digits := func() (int, bool) {
		j := i
		for j < len(body) && isDigit(body[j]) {
			j++
		}
		if j == i {
			return 0, false
		}
		v, _ := strconv.Atoi(body[i:j])
		i = j
		return v, true
	}

	if v, ok := digits(); ok {
		a.Isotope = v
	}

	// Element symbol: aromatic lowercase, '*', or an uppercase letter with optional lowercase.
	switch {
	case i < len(body) && body[i] == '*':
		a.Symbol = "*"
		i++
	case i+1 < len(body) && aromaticBracket[body[i:i+2]]:
		a.Symbol = strings.ToUpper(body[i:i+1]) + body[i+1:i+2]
		a.Aromatic = true
		i += 2
	case i < len(body) && aromaticBracket[body[i:i+1]]:
		a.Symbol = strings.ToUpper(body[i : i+1])
		a.Aromatic = true
		i++
	case i < len(body) && body[i] >= 'A' && body[i] <= 'Z':
		sym := body[i : i+1]
		if i+1 < len(body) && body[i+1] >= 'a' && body[i+1] <= 'z' && elements[body[i:i+2]] {
			sym = body[i : i+2]
		}
		if !elements[sym] {
			return a, "unknown element '" + sym + "'"
		}
		a.Symbol = sym
		i += len(sym)
	default:
		return a, "missing element symbol in bracket atom"
	}

	// Chirality: '@', '@@', or '@' followed by a class such as TH1, AL2, SP3, TB12, OH30.
	if i < len(body) && body[i] == '@' {
		i++
		switch {
		case i < len(body) && body[i] == '@':
			i++
		case i+2 < len(body) && chiralClasses[body[i:i+2]]:
			i += 2
			if _, ok := digits(); !ok {
				return a, "chirality class needs a number"
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.HCount = 1
		if v, ok := digits(); ok {
			a.HCount = v
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		c := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			v, _ := digits()
			a.Charge = sign * v
		default:
			n := 1
			for i < len(body) && body[i] == c {
				n++
				i++
			}
			a.Charge = sign * n
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if _, ok := digits(); !ok {
			return a, "atom class needs a number"
		}
	}

	if i != len(body) {
		return a, "unexpected '" + body[i:] + "' in bracket atom"
	}
	return a, ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
