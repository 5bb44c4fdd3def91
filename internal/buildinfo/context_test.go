package buildinfo

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Version(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{
			name: "nil context",
			ctx:  nil,
			want: UnknownValue,
		},
		{
			name: "empty version",
			ctx:  NewContext("", "2026-01-01"),
			want: UnknownValue,
		},
		{
			name: "valid version",
			ctx:  NewContext("1.0.0", "2026-01-01"),
			want: "1.0.0",
		},
		{
			name: "version with pre-release tag",
			ctx:  NewContext("1.0.0-beta.1", "2026-01-01"),
			want: "1.0.0-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ctx.GetVersion())
		})
	}
}

func TestContext_BuildDate(t *testing.T) {
	assert.Equal(t, UnknownValue, (*Context)(nil).GetBuildDate())
	assert.Equal(t, UnknownValue, NewContext("1.0.0", "").GetBuildDate())
	assert.Equal(t, "2026-01-01", NewContext("1.0.0", "2026-01-01").GetBuildDate())
}

func TestContext_InstanceID(t *testing.T) {
	a, b := NewContext("1.0.0", ""), NewContext("1.0.0", "")
	_, err := uuid.Parse(a.InstanceID)
	require.NoError(t, err)
	assert.NotEqual(t, a.InstanceID, b.InstanceID)
}

func TestContext_UserAgentAndString(t *testing.T) {
	ctx := NewContext("1.2.3", "2026-01-01")
	assert.Equal(t, "phacts/1.2.3", ctx.UserAgent())
	assert.True(t, strings.HasPrefix(ctx.String(), "1.2.3 (built 2026-01-01, go"))
	assert.Equal(t, "phacts/unknown", NewContext("", "").UserAgent())
}
