package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{
			name:    "string",
			input:   "Control+grave",
			wantStr: `"Control+grave"`,
		},
		{
			name:    "int",
			input:   42,
			wantStr: "42",
		},
		{
			name:    "int64",
			input:   int64(123456789),
			wantStr: "123456789",
		},
		{
			name:    "float64",
			input:   3.14,
			wantStr: "3.14",
		},
		{
			name:    "bool true",
			input:   true,
			wantStr: "True",
		},
		{
			name:    "bool false",
			input:   false,
			wantStr: "False",
		},
		{
			name:    "nil",
			input:   nil,
			wantStr: "None",
		},
		{
			name:    "string slice",
			input:   []string{"ascii_mode", "simplification"},
			wantStr: `["ascii_mode", "simplification"]`,
		},
		{
			name:    "empty string slice",
			input:   []string{},
			wantStr: "[]",
		},
		{
			name:    "any slice",
			input:   []any{"abc", 1, true},
			wantStr: `["abc", 1, True]`,
		},
		{
			name:    "map",
			input:   map[string]any{"schema_id": "pinyin"},
			wantStr: `{"schema_id": "pinyin"}`,
		},
		{
			name:    "unsupported type",
			input:   struct{}{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "expected error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestGoToStarlarkNestedListError(t *testing.T) {
	_, err := GoToStarlark([]any{struct{}{}})
	require.Error(t, err)
}

func TestGoToStarlarkNestedMapError(t *testing.T) {
	_, err := GoToStarlark(map[string]any{"bad": struct{}{}})
	require.Error(t, err)
}
