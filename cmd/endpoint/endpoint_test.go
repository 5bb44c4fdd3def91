package endpoint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ops4go/phacts/internal/conf"
	"github.com/ops4go/phacts/internal/errors"
	"github.com/ops4go/phacts/internal/output"
	"github.com/ops4go/phacts/internal/phacts"
	"github.com/ops4go/phacts/internal/runtime"
	"github.com/ops4go/phacts/internal/testutil"
)

func newRuntime(t *testing.T) *runtime.Context {
	t.Helper()
	svc, err := phacts.NewService(phacts.Config{Settings: conf.Defaults(), Remote: testutil.NewStubRemote()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return &runtime.Context{Service: svc, Format: output.FormatText}
}

func execute(t *testing.T, rt *runtime.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := Command(rt)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEndpointGet(t *testing.T) {
	out, err := execute(t, newRuntime(t), "get")
	require.NoError(t, err)
	assert.Equal(t, "endpoint:     "+conf.DefaultEndpoint+"\nconcept base: "+conf.DefaultConceptBase+"\n", out)
}

func TestEndpointSet(t *testing.T) {
	rt := newRuntime(t)

	out, err := execute(t, rt, "set", "https://ops.example.org/2.0", "--concept-base", "https://concepts.example.org/c")
	require.NoError(t, err)
	assert.Contains(t, out, "endpoint:     https://ops.example.org/2.0/\n")
	assert.Contains(t, out, "concept base: https://concepts.example.org/c/")

	assert.Equal(t, "https://ops.example.org/2.0/", rt.Service.Endpoint())
}

func TestEndpointSetRejectsInvalidURL(t *testing.T) {
	rt := newRuntime(t)

	_, err := execute(t, rt, "set", "not a url")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, conf.DefaultEndpoint, rt.Service.Endpoint())
}
