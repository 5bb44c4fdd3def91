package search

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/observability/metrics"
	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/runtime"
	"github.com/ops4go/phacts/internal/testutil"
)

func newRuntime(t *testing.T, remote phacts.Remote, format output.Format) *runtime.Context {
	t.Helper()
	svc, err := phacts.NewService(phacts.Config{Settings: conf.Defaults(), Remote: remote})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return &runtime.Context{Settings: conf.Defaults(), Service: svc, Format: format}
}

func TestSearchCommand(t *testing.T) {
	remote := testutil.NewStubRemote().Set(metrics.OpSearchConcepts, testutil.SearchPayload)
	rt := newRuntime(t, remote, output.FormatJSON)

	var out bytes.Buffer
	cmd := Command(rt)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"compounds", "acetyl", "salicylic", "acid"})
	require.NoError(t, cmd.Execute())

	var records []phacts.EntityRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	assert.Equal(t, []phacts.EntityRecord{{DisplayName: "Aspirin", ID: testutil.AspirinID}}, records)
}

func TestSearchCommandRejectsKind(t *testing.T) {
	remote := testutil.NewStubRemote()
	rt := newRuntime(t, remote, output.FormatText)

	cmd := Command(rt)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"genes", "aspirin"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Zero(t, remote.Calls(metrics.OpSearchConcepts))
}

func TestSearchCommandWithoutService(t *testing.T) {
	cmd := Command(&runtime.Context{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"compounds", "aspirin"})
	assert.ErrorIs(t, cmd.Execute(), phacts.ErrNoService)
}
