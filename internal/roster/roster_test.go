package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Roster
	}{
		{
			name: "yaml sequence",
			data: "- Ada\n- Bo\n- \"Cy Young\"\n",
			want: Roster{"Ada", "Bo", "Cy Young"},
		},
		{
			name: "yaml mapping",
			data: "participants:\n  - Ada\n  - Bo\n",
			want: Roster{"Ada", "Bo"},
		},
		{
			name: "plain lines with comments",
			data: "# team\nAda\n\n  Bo  \nCy Young\n",
			want: Roster{"Ada", "Bo", "Cy Young"},
		},
		{
			name: "single name",
			data: "Ada\n",
			want: Roster{"Ada"},
		},
		{
			name: "names are trimmed",
			data: "- \"  Ada \"\n- Bo\n",
			want: Roster{"Ada", "Bo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", errors.ErrEmptyRoster},
		{"whitespace only", "  \n\n", errors.ErrEmptyRoster},
		{"mapping without participants", "people: [Ada]\n", errors.ErrEmptyRoster},
		{"duplicate", "- Ada\n- Bo\n- Ada\n", errors.ErrInvalidInput},
		{"duplicate after trim", "Ada\n Ada \n", errors.ErrInvalidInput},
		{"blank entry", "- Ada\n- \"  \"\n", errors.ErrInvalidInput},
		{"nested sequence", "- [Ada, Bo]\n", errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "team.yaml")
		require.NoError(t, os.WriteFile(path, []byte("participants: [Ada, Bo, Cy]\n"), 0o644))

		r, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Roster{"Ada", "Bo", "Cy"}, r)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.txt"))
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("invalid content names the file", func(t *testing.T) {
		path := filepath.Join(dir, "dup.txt")
		require.NoError(t, os.WriteFile(path, []byte("Ada\nAda\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
		assert.Contains(t, err.Error(), `"Ada" appears twice`)
	})
}

func TestRosterHelpers(t *testing.T) {
	r := Roster{"Ada", "Bo"}
	assert.True(t, r.Contains("Bo"))
	assert.False(t, r.Contains("bo"))

	names := r.Names()
	names[0] = "changed"
	assert.Equal(t, "Ada", r[0], "Names must return a copy")
}
