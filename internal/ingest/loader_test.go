package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapeSchema = `{
  "version": "v1",
  "root": "Shape",
  "types": {
    "Shape": {
      "enum": {
        "variants": [
          {"name": "Circle", "type": "f64"},
          {"name": "Polygon", "type": "Points"},
          {"name": "Group", "type": "Shapes"},
          {"name": "Empty"}
        ]
      }
    },
    "Points": {"seq": "Point"},
    "Shapes": {"seq": "Shape"},
    "Point": {"struct": {"fields": [{"name": "x", "type": "f64"}, {"name": "y", "type": "f64"}]}}
  }
}`

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema([]byte(shapeSchema))
	require.NoError(t, err)
	require.NoError(t, schema.Validate())

	assert.Equal(t, "v1", schema.Version)
	assert.Equal(t, "Shape", schema.Root)
	assert.Len(t, schema.Types, 4)

	shape := schema.Types["Shape"]
	require.Equal(t, "enum", shape.Kind())
	require.Len(t, shape.Enum.Variants, 4)
	assert.Equal(t, "Circle", shape.Enum.Variants[0].Name)
	assert.Equal(t, "f64", shape.Enum.Variants[0].Type)
	assert.Equal(t, "Empty", shape.Enum.Variants[3].Name)
	assert.Empty(t, shape.Enum.Variants[3].Type, "unit variant has no payload type")

	assert.Equal(t, "seq", schema.Types["Shapes"].Kind())
	assert.Equal(t, "struct", schema.Types["Point"].Kind())
}

func TestParseSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"invalid json", `{`, "invalid json"},
		{"not an object", `[1, 2]`, "not an object"},
		{"missing types", `{"root": "A"}`, `no "types"`},
		{"bad definition form", `{"types": {"A": {"record": {}}}}`, "unknown definition form"},
		{"bad variants", `{"types": {"A": {"enum": {}}}}`, `no "variants"`},
		{"bad fields", `{"types": {"A": {"struct": {}}}}`, `no "fields"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadSchemaValidates(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(shapeSchema), 0o644))
	schema, err := LoadSchema(good)
	require.NoError(t, err)
	assert.Equal(t, "Shape", schema.Root)

	bad := filepath.Join(dir, "bad.json")
	dangling := `{"root": "A", "types": {"A": {"enum": {"variants": [{"name": "V", "type": "Missing"}]}}}}`
	require.NoError(t, os.WriteFile(bad, []byte(dangling), 0o644))
	_, err = LoadSchema(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Missing"`)

	_, err = LoadSchema(filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}
