package testutil

import (
	"context"
	"sync"

	"github.com/ops4go/phacts/internal/observability/metrics"
)

// StubRemote answers linked data API calls with canned payloads keyed by
// operation name (the metrics.Op* constants). An operation without a payload
// answers EmptyGraph.
type StubRemote struct {
	mu       sync.Mutex
	payloads map[string]string
	errs     map[string]error
	calls    map[string]int
}

// NewStubRemote returns an empty StubRemote.
func NewStubRemote() *StubRemote {
	return &StubRemote{
		payloads: make(map[string]string),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Set makes op answer payload.
func (r *StubRemote) Set(op, payload string) *StubRemote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads[op] = payload
	delete(r.errs, op)
	return r
}

// Fail makes op return err.
func (r *StubRemote) Fail(op string, err error) *StubRemote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[op] = err
	return r
}

// Calls returns how often op was called.
func (r *StubRemote) Calls(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *StubRemote) answer(ctx context.Context, op string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.errs[op]; err != nil {
		return "", err
	}
	if payload, ok := r.payloads[op]; ok {
		return payload, nil
	}
	return EmptyGraph, nil
}

func (r *StubRemote) SearchConcepts(ctx context.Context, _, _ string) (string, error) {
	return r.answer(ctx, metrics.OpSearchConcepts)
}

func (r *StubRemote) CompoundInfo(ctx context.Context, _ string) (string, error) {
	return r.answer(ctx, metrics.OpCompoundInfo)
}

func (r *StubRemote) TargetInfo(ctx context.Context, _ string) (string, error) {
	return r.answer(ctx, metrics.OpTargetInfo)
}

func (r *StubRemote) PharmacologyCount(ctx context.Context, _ string) (string, error) {
	return r.answer(ctx, metrics.OpPharmacologyCount)
}

func (r *StubRemote) PharmacologyPage(ctx context.Context, _ string, _, _ int) (string, error) {
	return r.answer(ctx, metrics.OpPharmacologyPage)
}

func (r *StubRemote) MapURI(ctx context.Context, _ string) (string, error) {
	return r.answer(ctx, metrics.OpMapURI)
}

func (r *StubRemote) Similarity(ctx context.Context, _ string, _ float64) (string, error) {
	return r.answer(ctx, metrics.OpSimilarity)
}

func (r *StubRemote) InChIToURI(ctx context.Context, _ string) (string, error) {
	return r.answer(ctx, metrics.OpInChIToURI)
}
