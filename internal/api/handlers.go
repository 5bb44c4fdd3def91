package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/progress"
)

// ContentTypeNDJSON is used for streamed similarity results.
const ContentTypeNDJSON = "application/x-ndjson"

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Endpoint string `json:"endpoint"`
}

// AnnotationRequest selects the entities to annotate. Entities takes
// precedence; otherwise Query is resolved first.
type AnnotationRequest struct {
	Query    string                `json:"query,omitempty"`
	Entities []phacts.EntityRecord `json:"entities,omitempty"`
}

// SimilarItem is one line of the similarity stream.
type SimilarItem struct {
	URI string `json:"uri"`
}

// StructureURIResponse is returned by /structure/uri.
type StructureURIResponse struct {
	URI string `json:"uri"`
}

// EndpointSettings is read and written by /settings/endpoint. Empty fields
// are left unchanged on PUT.
type EndpointSettings struct {
	Endpoint    string `json:"endpoint,omitempty"`
	ConceptBase string `json:"concept_base,omitempty"`
}

func badRequest(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("api").
		Category(errors.CategoryValidation).
		Build()
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Uptime:   s.Uptime().Truncate(time.Second).String(),
		Endpoint: s.service.Endpoint(),
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	kind, err := phacts.ParseKind(c.Param("kind"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	records, err := s.service.Search(c.Request().Context(), c.QueryParam("q"), kind, nil)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleAnnotations(c echo.Context) error {
	kind, err := phacts.ParseKind(c.Param("kind"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	var req AnnotationRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, badRequest("invalid request body: %v", err))
	}

	ctx := c.Request().Context()
	entities := req.Entities
	if len(entities) == 0 {
		if strings.TrimSpace(req.Query) == "" {
			return s.errorResponse(c, badRequest("either entities or query is required"))
		}
		if entities, err = s.service.Search(ctx, req.Query, kind, nil); err != nil {
			return s.errorResponse(c, err)
		}
	}

	// A client disconnect stops the batch at the next entity boundary.
	tracker := progress.NewTracker(s.log.Module("progress"))
	stop := context.AfterFunc(ctx, tracker.Cancel)
	defer stop()

	switch kind {
	case phacts.KindCompound:
		out, err := s.service.CompoundAnnotations(ctx, entities, tracker)
		if err != nil {
			return s.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, out)
	default:
		out, err := s.service.ProteinAnnotations(ctx, entities, tracker)
		if err != nil {
			return s.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (s *Server) handleMapURI(c echo.Context) error {
	uris, err := s.service.MapURI(c.Request().Context(), c.QueryParam("uri"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, uris)
}

func parseThreshold(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badRequest("invalid threshold %q", raw)
	}
	return &t, nil
}

func (s *Server) handleSimilar(c echo.Context) error {
	threshold, err := parseThreshold(c.QueryParam("threshold"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	mol, err := s.service.Toolkit().ParseSMILES(c.QueryParam("smiles"))
	if err != nil {
		return s.errorResponse(c, err)
	}

	res := c.Response()
	enc := json.NewEncoder(res)
	started := false
	start := func() {
		res.Header().Set(echo.HeaderContentType, ContentTypeNDJSON)
		res.WriteHeader(http.StatusOK)
		started = true
	}

	for uri, err := range s.service.FindSimilar(c.Request().Context(), mol, threshold) {
		if err != nil {
			if !started {
				return s.errorResponse(c, err)
			}
			// Headers are gone; report the failure in-band and end the stream.
			s.log.Warn("similarity stream aborted", logger.Error(err))
			_, category := statusFor(err)
			_ = enc.Encode(newErrorResponse(err, category))
			res.Flush()
			return nil
		}
		if !started {
			start()
		}
		if err := enc.Encode(SimilarItem{URI: uri}); err != nil {
			return nil
		}
		res.Flush()
		if s.metrics != nil {
			s.metrics.HTTP.RecordStreamedItem(c.Path())
		}
	}
	if !started {
		start()
	}
	return nil
}

func (s *Server) handleStructureURI(c echo.Context) error {
	mol, err := s.service.Toolkit().ParseSMILES(c.QueryParam("smiles"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	if inchi := c.QueryParam("inchi"); inchi != "" {
		mol.SetInChI(inchi)
	}

	uri, ok, err := s.service.ResolveURIForStructure(c.Request().Context(), mol)
	if err != nil {
		return s.errorResponse(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:    "no compound matches the structure",
			Category: string(errors.CategoryNotFound),
		})
	}
	return c.JSON(http.StatusOK, StructureURIResponse{URI: uri})
}

func (s *Server) handleGetEndpoint(c echo.Context) error {
	return c.JSON(http.StatusOK, EndpointSettings{
		Endpoint:    s.service.Endpoint(),
		ConceptBase: s.service.ConceptBase(),
	})
}

func (s *Server) handlePutEndpoint(c echo.Context) error {
	var req EndpointSettings
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, badRequest("invalid request body: %v", err))
	}
	if req.Endpoint == "" && req.ConceptBase == "" {
		return s.errorResponse(c, badRequest("endpoint or concept_base is required"))
	}
	if req.Endpoint != "" {
		if err := s.service.SetEndpoint(req.Endpoint); err != nil {
			return s.errorResponse(c, err)
		}
	}
	if req.ConceptBase != "" {
		if err := s.service.SetConceptBase(req.ConceptBase); err != nil {
			return s.errorResponse(c, err)
		}
	}
	s.log.Info("endpoint settings updated",
		logger.String("endpoint", s.service.Endpoint()),
		logger.String("concept_base", s.service.ConceptBase()))
	return s.handleGetEndpoint(c)
}
