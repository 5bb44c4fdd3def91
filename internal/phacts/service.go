package phacts

import (
	"context"
	"iter"
	"net/url"
	"strings"
	"sync"

	"github.com/ops4go/phacts/internal/chem"
	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/httpclient"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/ops"
	"github.com/ops4go/phacts/internal/prefs"
	"github.com/ops4go/phacts/internal/progress"
)

// Config holds the collaborators of a Service. Zero fields get defaults.
type Config struct {
	Settings *conf.Settings     // nil uses conf.Defaults()
	Prefs    prefs.Store        // nil keeps preferences in memory
	HTTP     *httpclient.Client // nil builds a client from Settings
	Remote   Remote             // nil uses an ops.Client over HTTP
	Toolkit  chem.Toolkit       // nil uses chem.Builtin
	Metrics  *metrics.OPSMetrics
}

// Service is the query surface of the pipeline. Endpoint settings are read
// from the preference store on every call.
type Service struct {
	settings *conf.Settings
	prefs    prefs.Store
	http     *httpclient.Client
	toolkit  chem.Toolkit

	resolver   *Resolver
	annotator  *Annotator
	mapper     *Mapper
	similarity *Similarity
	structures *Structures
}

// NewService wires the pipeline stages for cfg.
func NewService(cfg Config) (*Service, error) {
	s := &Service{
		settings: cfg.Settings,
		prefs:    cfg.Prefs,
		http:     cfg.HTTP,
		toolkit:  cfg.Toolkit,
	}
	if s.settings == nil {
		s.settings = conf.Defaults()
	}
	if s.prefs == nil {
		s.prefs = prefs.NewMemoryStore()
	}
	if s.toolkit == nil {
		s.toolkit = chem.Builtin{}
	}

	remote := cfg.Remote
	if remote == nil {
		if s.http == nil {
			s.http = httpclient.New(&httpclient.Config{
				DefaultTimeout: s.settings.OpenPHACTS.Timeout,
				UserAgent:      s.settings.OpenPHACTS.UserAgent,
				RateLimit:      s.settings.OpenPHACTS.RateLimit,
				Burst:          s.settings.OpenPHACTS.Burst,
			})
		}
		client, err := ops.New(ops.Config{
			Endpoint: s,
			AppID:    s.settings.OpenPHACTS.AppID,
			AppKey:   s.settings.OpenPHACTS.AppKey,
			HTTP:     s.http,
			Metrics:  cfg.Metrics,
		})
		if err != nil {
			return nil, err
		}
		remote = client
	}

	s.resolver = NewResolver(remote, cfg.Metrics, nil)
	s.annotator = NewAnnotator(AnnotatorConfig{
		Remote:        remote,
		Toolkit:       s.toolkit,
		Concepts:      s,
		MaxActivities: s.settings.Annotation.MaxActivities,
		Metrics:       cfg.Metrics,
	})
	s.mapper = NewMapper(remote, cfg.Metrics)
	s.similarity = NewSimilarity(remote, s.toolkit, s.settings.Similarity.Threshold, cfg.Metrics)
	s.structures = NewStructures(remote, s.toolkit, cfg.Metrics)
	return s, nil
}

// Toolkit returns the chemistry toolkit used for structures.
func (s *Service) Toolkit() chem.Toolkit {
	return s.toolkit
}

// Search resolves text to entities of kind.
func (s *Service) Search(ctx context.Context, text string, kind Kind, monitor progress.Monitor) ([]EntityRecord, error) {
	return s.resolver.Resolve(ctx, text, kind, monitor)
}

func (s *Service) SearchCompounds(ctx context.Context, text string, monitor progress.Monitor) ([]EntityRecord, error) {
	return s.Search(ctx, text, KindCompound, monitor)
}

func (s *Service) SearchProteins(ctx context.Context, text string, monitor progress.Monitor) ([]EntityRecord, error) {
	return s.Search(ctx, text, KindProtein, monitor)
}

func (s *Service) CompoundAnnotations(ctx context.Context, entities []EntityRecord, monitor progress.Monitor) ([]AnnotatedCompound, error) {
	return s.annotator.Compounds(ctx, entities, monitor)
}

func (s *Service) ProteinAnnotations(ctx context.Context, entities []EntityRecord, monitor progress.Monitor) ([]AnnotatedProtein, error) {
	return s.annotator.Proteins(ctx, entities, monitor)
}

func (s *Service) MapURI(ctx context.Context, uri string) ([]string, error) {
	return s.mapper.MapURI(ctx, uri)
}

// ResolveURIForStructure returns the compound URI for mol, with ok false when there is none.
func (s *Service) ResolveURIForStructure(ctx context.Context, mol *chem.Molecule) (string, bool, error) {
	return s.structures.ResolveURI(ctx, mol)
}

func (s *Service) FindSimilar(ctx context.Context, mol *chem.Molecule, threshold *float64) iter.Seq2[string, error] {
	return s.similarity.FindSimilar(ctx, mol, threshold)
}

func (s *Service) CollectSimilar(ctx context.Context, mol *chem.Molecule, threshold *float64) ([]string, error) {
	return s.similarity.CollectSimilar(ctx, mol, threshold)
}

// SimilarityThreshold returns the cutoff FindSimilar would use for threshold.
func (s *Service) SimilarityThreshold(threshold *float64) float64 {
	return s.similarity.Threshold(threshold)
}

// Endpoint returns the linked data API base URL.
func (s *Service) Endpoint() string {
	return s.prefs.Get(prefs.KeyEndpoint, s.settings.OpenPHACTS.Endpoint)
}

// SetEndpoint stores a new API base URL. It applies to the next call.
func (s *Service) SetEndpoint(endpoint string) error {
	return s.putBaseURL(prefs.KeyEndpoint, endpoint)
}

// ConceptBase returns the prefix that turns concept IDs into URIs.
func (s *Service) ConceptBase() string {
	return s.prefs.Get(prefs.KeyConceptBase, s.settings.OpenPHACTS.ConceptBase)
}

func (s *Service) SetConceptBase(base string) error {
	return s.putBaseURL(prefs.KeyConceptBase, base)
}

func (s *Service) putBaseURL(key, raw string) error {
	normalized, err := normalizeBaseURL(raw)
	if err != nil {
		return err
	}
	if err := s.prefs.Put(key, normalized); err != nil {
		return err
	}
	logger.Global().Module("phacts").Info("preference updated",
		logger.String("key", key),
		logger.String("value", normalized))
	return nil
}

// Close releases the preference store and HTTP client owned by s.
func (s *Service) Close() error {
	if s.http != nil {
		s.http.Close()
	}
	return prefs.Close(s.prefs)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", invalidArgument("invalid base URL %q: expected an absolute http or https URL", raw)
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}

var (
	defaultMu      sync.RWMutex
	defaultService *Service
)

// Default returns the process-wide service, creating one from the loaded
// settings on first use.
func Default() *Service {
	defaultMu.RLock()
	s := defaultService
	defaultMu.RUnlock()
	if s != nil {
		return s
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultService == nil {
		svc, err := NewService(Config{Settings: conf.Setting()})
		if err != nil {
			logger.Global().Module("phacts").Error("failed to create default service", logger.Error(err))
			return nil
		}
		defaultService = svc
	}
	return defaultService
}

// SetDefault replaces the process-wide service and returns the previous one.
func SetDefault(s *Service) *Service {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultService
	defaultService = s
	return prev
}

// ErrNoService is returned by callers that need the default service when none could be created.
var ErrNoService = errors.NewStd("phacts service is not configured")
