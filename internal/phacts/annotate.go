package phacts

import (
	"context"
	"strconv"
	"strings"

	"github.com/ops4go/phacts/internal/chem"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/ops"
	"github.com/ops4go/phacts/internal/progress"
	"github.com/ops4go/phacts/internal/rdf"
)

// AnnotatedCompound is a compound with the properties merged from its info
// and pharmacology records. NoData marks an entity the service had no record for.
type AnnotatedCompound struct {
	Entity     EntityRecord      `json:"entity" yaml:"entity"`
	Molecule   *chem.Molecule    `json:"-" yaml:"-"`
	SMILES     string            `json:"smiles,omitempty" yaml:"smiles,omitempty"`
	InChI      string            `json:"inchi,omitempty" yaml:"inchi,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	NoData     bool              `json:"no_data,omitempty" yaml:"no_data,omitempty"`
}

// AnnotatedProtein is a protein with the properties of its target record.
type AnnotatedProtein struct {
	Entity     EntityRecord      `json:"entity" yaml:"entity"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	NoData     bool              `json:"no_data,omitempty" yaml:"no_data,omitempty"`
}

// Summary renders the protein as its name followed by its properties, one
// per line. A placeholder renders as "".
func (p AnnotatedProtein) Summary() string {
	if p.NoData {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteString("\n")
	for _, f := range proteinFields {
		if v, ok := p.Properties[f.property]; ok {
			sb.WriteString("\n" + f.property + "=" + v)
		}
	}
	return sb.String()
}

// AnnotatorConfig holds the collaborators of an Annotator.
type AnnotatorConfig struct {
	Remote        Remote
	Toolkit       chem.Toolkit      // nil uses chem.Builtin
	Concepts      ConceptBaseSource // nil uses the default concept base
	MaxActivities int               // pharmacology records fetched per compound; <1 uses the default
	Metrics       *metrics.OPSMetrics
	Logger        logger.Logger
}

// Annotator merges remote records into one annotated record per entity.
// Entities are processed one at a time, in order.
type Annotator struct {
	remote        Remote
	toolkit       chem.Toolkit
	concepts      ConceptBaseSource
	maxActivities int
	metrics       *metrics.OPSMetrics
	log           logger.Logger
}

// NewAnnotator returns an Annotator for cfg.
func NewAnnotator(cfg AnnotatorConfig) *Annotator {
	a := &Annotator{
		remote:        cfg.Remote,
		toolkit:       cfg.Toolkit,
		concepts:      cfg.Concepts,
		maxActivities: cfg.MaxActivities,
		metrics:       cfg.Metrics,
		log:           cfg.Logger,
	}
	if a.toolkit == nil {
		a.toolkit = chem.Builtin{}
	}
	if a.concepts == nil {
		a.concepts = StaticConceptBase(conf.DefaultConceptBase)
	}
	if a.maxActivities < 1 {
		a.maxActivities = conf.DefaultMaxActivities
	}
	if a.log == nil {
		a.log = logger.Global().Module("phacts").Module("annotate")
	}
	return a
}

// Compounds annotates compound entities. Entities without a usable structure
// are dropped. A cancelled monitor stops the loop at the next entity and the
// records completed so far are returned without error.
func (a *Annotator) Compounds(ctx context.Context, entities []EntityRecord, monitor progress.Monitor) ([]AnnotatedCompound, error) {
	monitor = progress.OrNull(monitor)
	monitor.Begin("Annotating compounds", 2*len(entities))

	out := make([]AnnotatedCompound, 0, len(entities))
	for i, e := range entities {
		if monitor.IsCancelled() {
			a.log.Info("compound annotation cancelled",
				logger.Int("completed", i),
				logger.Int("total", len(entities)))
			return out, nil
		}
		monitor.SubTask("Annotating compound " + e.DisplayName)

		record, ok, err := a.compound(ctx, e, monitor)
		if err != nil {
			return nil, entityError(err, KindCompound, e)
		}
		if ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (a *Annotator) compound(ctx context.Context, e EntityRecord, monitor progress.Monitor) (AnnotatedCompound, bool, error) {
	uri := e.URI(a.concepts.ConceptBase())
	log := a.log.With(logger.String("entity_id", e.ID))

	monitor.Worked(1)
	payload, err := a.remote.CompoundInfo(ctx, uri)
	if err != nil {
		if ops.IsNotFound(err) {
			log.Info("no compound record, adding placeholder")
			a.metrics.RecordAnnotation(metrics.LabelCompound, metrics.OutcomePlaceholder)
			monitor.Worked(1)
			return AnnotatedCompound{Entity: e, NoData: true}, true, nil
		}
		return AnnotatedCompound{}, false, err
	}

	rs, err := rdf.Parse(payload, compoundInfoQuery)
	if err != nil {
		a.metrics.RecordParseError("compound_info")
		return AnnotatedCompound{}, false, parseError(err, "compound_info")
	}

	mol, ok := a.molecule(rs, log)
	if !ok {
		a.metrics.RecordAnnotation(metrics.LabelCompound, metrics.OutcomeDropped)
		monitor.Worked(1)
		return AnnotatedCompound{}, false, nil
	}

	record := AnnotatedCompound{
		Entity:     e,
		Molecule:   mol,
		SMILES:     mol.SMILES,
		InChI:      mol.InChI,
		Properties: make(map[string]string),
	}
	foldFields(rs, compoundFields, record.Properties)

	monitor.Worked(1)
	if err := a.pharmacology(ctx, uri, record.Properties, log); err != nil {
		return AnnotatedCompound{}, false, err
	}

	a.metrics.RecordAnnotation(metrics.LabelCompound, metrics.OutcomeAnnotated)
	return record, true, nil
}

// molecule parses the structure of the first info row that has one.
func (a *Annotator) molecule(rs *rdf.ResultSet, log logger.Logger) (*chem.Molecule, bool) {
	if rs.Len() == 0 {
		log.Warn("compound record has no rows, dropping")
		return nil, false
	}
	smiles, ok := rs.Get(0, "smiles")
	if !ok || strings.TrimSpace(smiles) == "" {
		log.Warn("compound record has no SMILES, dropping")
		return nil, false
	}
	mol, err := a.toolkit.ParseSMILES(smiles)
	if err != nil {
		log.Warn("compound structure could not be parsed, dropping",
			logger.String("smiles", smiles),
			logger.Error(err))
		return nil, false
	}
	if inchi, ok := rs.Get(0, "inchi"); ok {
		mol.SetInChI(inchi)
	}
	return mol, true
}

// pharmacology merges up to maxActivities activity records into props.
func (a *Annotator) pharmacology(ctx context.Context, uri string, props map[string]string, log logger.Logger) error {
	payload, err := a.remote.PharmacologyCount(ctx, uri)
	if err != nil {
		return err
	}
	rs, err := rdf.Parse(payload, pharmacologyCountQuery)
	if err != nil {
		a.metrics.RecordParseError("pharmacology_count")
		return parseError(err, "pharmacology_count")
	}
	raw, ok := rs.Get(0, "count")
	if !ok {
		log.Debug("no pharmacology count")
		return nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		a.metrics.RecordParseError("pharmacology_count")
		return parseError(err, "pharmacology_count")
	}
	if count <= 0 {
		return nil
	}
	if count > a.maxActivities {
		log.Warn("pharmacology records capped",
			logger.Int("count", count),
			logger.Int("limit", a.maxActivities))
		a.metrics.RecordPharmacologyCapped()
		count = a.maxActivities
	}

	payload, err = a.remote.PharmacologyPage(ctx, uri, 1, count)
	if err != nil {
		return err
	}
	rs, err = rdf.Parse(payload, pharmacologyQuery)
	if err != nil {
		a.metrics.RecordParseError("pharmacology")
		return parseError(err, "pharmacology")
	}
	for i, row := range rs.Rows() {
		entry := pharmacologyEntryFromRow(row)
		props[entry.Key(i+1)] = entry.String()
	}
	log.Debug("merged pharmacology", logger.Int("records", rs.Len()))
	return nil
}

// Proteins annotates protein entities with their target record. Entities the
// service has no record for are kept as placeholders, so the output is never
// longer than the input.
func (a *Annotator) Proteins(ctx context.Context, entities []EntityRecord, monitor progress.Monitor) ([]AnnotatedProtein, error) {
	monitor = progress.OrNull(monitor)
	monitor.Begin("Annotating proteins", 2*len(entities))

	out := make([]AnnotatedProtein, 0, len(entities))
	for i, e := range entities {
		if monitor.IsCancelled() {
			a.log.Info("protein annotation cancelled",
				logger.Int("completed", i),
				logger.Int("total", len(entities)))
			return out, nil
		}
		monitor.SubTask("Annotating protein " + e.DisplayName)

		record, ok, err := a.protein(ctx, e, monitor)
		if err != nil {
			return nil, entityError(err, KindProtein, e)
		}
		if ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (a *Annotator) protein(ctx context.Context, e EntityRecord, monitor progress.Monitor) (AnnotatedProtein, bool, error) {
	uri := e.URI(a.concepts.ConceptBase())
	log := a.log.With(logger.String("entity_id", e.ID))

	monitor.Worked(1)
	defer monitor.Worked(1)

	payload, err := a.remote.TargetInfo(ctx, uri)
	if err != nil {
		if ops.IsNotFound(err) {
			log.Info("no target record, adding placeholder")
			a.metrics.RecordAnnotation(metrics.LabelProtein, metrics.OutcomePlaceholder)
			return AnnotatedProtein{Entity: e, NoData: true}, true, nil
		}
		return AnnotatedProtein{}, false, err
	}

	rs, err := rdf.Parse(payload, proteinInfoQuery)
	if err != nil {
		a.metrics.RecordParseError("protein_info")
		return AnnotatedProtein{}, false, parseError(err, "protein_info")
	}
	if rs.Len() == 0 {
		log.Warn("target record has no rows, dropping")
		a.metrics.RecordAnnotation(metrics.LabelProtein, metrics.OutcomeDropped)
		return AnnotatedProtein{}, false, nil
	}

	record := AnnotatedProtein{
		Entity:     e,
		Name:       rs.Value(0, "name"),
		Properties: make(map[string]string),
	}
	foldFields(rs, proteinFields, record.Properties)

	a.metrics.RecordAnnotation(metrics.LabelProtein, metrics.OutcomeAnnotated)
	return record, true, nil
}

// foldFields copies every bound field of every row into props; later rows win.
func foldFields(rs *rdf.ResultSet, fields []optionalField, props map[string]string) {
	for _, row := range rs.Rows() {
		for _, f := range fields {
			if v, ok := row.Get(f.column); ok {
				props[f.property] = v
			}
		}
	}
}
