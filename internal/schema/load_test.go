package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/auxdata/internal/ir"
)

const yamlCatalogue = `
schemas:
  - name: functionNames
    type: mapping<UUID,string>
  - name: elfSymbolTabIdxInfo
    type: sequence<tuple<string, uint64_t>>
`

const cueCatalogue = `
schemas: [
	{name: "functionNames", type: "mapping<UUID,string>"},
	{name: "peResourceOffsets", type: "sequence<Offset>"},
]
`

func TestLoadYAML(t *testing.T) {
	schemas, err := LoadYAML(strings.NewReader(yamlCatalogue))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	assert.Equal(t, "functionNames", schemas[0].Name)
	assert.True(t, schemas[0].Shape.Equal(ir.MappingOf(ir.UUIDShape, ir.StringShape)))
	assert.Equal(t, "sequence<tuple<string,uint64_t>>", schemas[1].Shape.String())
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("schemas:\n  - name: x\n    typ: string\n"))
	require.Error(t, err)
}

func TestLoadYAMLRejectsBadType(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("schemas:\n  - name: x\n    type: float\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestLoadYAMLEmpty(t *testing.T) {
	schemas, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestLoadCUE(t *testing.T) {
	schemas, err := LoadCUE("ext.cue", []byte(cueCatalogue))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	assert.Equal(t, "peResourceOffsets", schemas[1].Name)
	assert.True(t, schemas[1].Shape.Equal(ir.SequenceOf(ir.OffsetShape)))
}

func TestLoadCUESyntaxError(t *testing.T) {
	_, err := LoadCUE("bad.cue", []byte(`schemas: [{name: "x", type: }]`))
	require.Error(t, err)
}

func TestLoadCUEMissingField(t *testing.T) {
	_, err := LoadCUE("missing.cue", []byte(`schemas: [{name: "x"}]`))
	require.Error(t, err)
}

func TestLoadFileRegisters(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "ext.yaml")
	cuePath := filepath.Join(dir, "ext.cue")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlCatalogue), 0o644))
	require.NoError(t, os.WriteFile(cuePath, []byte(cueCatalogue), 0o644))

	reg := New()
	require.NoError(t, reg.LoadFile(yamlPath))
	// functionNames is declared in both with the same shape
	require.NoError(t, reg.LoadFile(cuePath))

	assert.Equal(t, 3, reg.Len())
	assert.True(t, reg.Has("peResourceOffsets"))
}

func TestLoadFileConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemas:\n  - name: overlay\n    type: string\n"), 0o644))

	reg := New()
	reg.MustRegister("overlay", ir.BytesShape)

	err := reg.LoadFile(path)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}
