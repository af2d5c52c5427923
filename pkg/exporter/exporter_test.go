package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapping(t *testing.T) {
	m := defaultMapping()
	assert.Equal(t, "Assets", m.SheetName)
	require.NotEmpty(t, m.Columns)

	seen := map[string]bool{}
	for _, col := range m.Columns {
		assert.NotEmpty(t, col.Header)
		assert.NotEmpty(t, col.Field)
		assert.False(t, seen[col.Field], "duplicate field %s", col.Field)
		seen[col.Field] = true
	}
}

func TestLoadMappingConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid mapping", func(t *testing.T) {
		path := filepath.Join(dir, "mapping.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
version: 1
sheet_name: Register
columns:
  - header: ID
    field: id
  - header: Name
    field: name
`), 0o644))

		cfg, err := loadMappingConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Register", cfg.SheetName)
		require.Len(t, cfg.Columns, 2)
		assert.Equal(t, "id", cfg.Columns[0].Field)
	})

	t.Run("sheet name defaults", func(t *testing.T) {
		path := filepath.Join(dir, "nosheet.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
columns:
  - header: ID
    field: id
`), 0o644))

		cfg, err := loadMappingConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Assets", cfg.SheetName)
	})

	t.Run("no columns rejected", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

		_, err := loadMappingConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadMappingConfig(filepath.Join(dir, "nope.yaml"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns: [\n"), 0o644))

		_, err := loadMappingConfig(path)
		assert.Error(t, err)
	})
}

func TestFieldFormatters(t *testing.T) {
	assert.Equal(t, "", strOrEmpty(nil))
	s := "x"
	assert.Equal(t, "x", strOrEmpty(&s))

	assert.Equal(t, "", dateOrEmpty(nil))
	assert.Equal(t, "", int64OrEmpty(nil))
	v := int64(42)
	assert.Equal(t, "42", int64OrEmpty(&v))
}
