package collection

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

const nativeYAML = `
bundles:
  Core Set: 2
  T-65 X-Wing Expansion Pack: "1"
loose:
  pilot:
    Luke Skywalker: 1
  upgrade:
    R2-D2: 3
`

const yasbJSON = `{
  "collection": {
    "expansions": {"Star Wars: X-Wing Second Edition Core Set": "1", "T-70 X-Wing Expansion Pack": "0"},
    "singletons": {
      "ship": {"T-65 X-wing": "1"},
      "pilot": {"Black Squadron Ace (T-70)": "2"},
      "upgrade": {}
    }
  }
}`

func TestDecodeNativeYAML(t *testing.T) {
	in, err := Decode(strings.NewReader(nativeYAML), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Core Set": 2, "T-65 X-Wing Expansion Pack": 1}, in.Bundles)
	assert.Equal(t, 1, in.Loose[catalog.KindPilot]["Luke Skywalker"])
	assert.Equal(t, 3, in.Loose[catalog.KindUpgrade]["R2-D2"])
}

func TestDecodeNativeJSON(t *testing.T) {
	in, err := Decode(strings.NewReader(`{"bundles": {"Core Set": 1}, "loose": {"ship": {"T-70 X-wing": "2"}}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Bundles["Core Set"])
	assert.Equal(t, 2, in.Loose[catalog.KindShip]["T-70 X-wing"])
}

func TestDecodeNativeTOML(t *testing.T) {
	const doc = `
[bundles]
"Core Set" = 2
"T-65 X-Wing Expansion Pack" = "1"

[loose.pilot]
"Luke Skywalker" = 1
`
	in, err := Decode(strings.NewReader(doc), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Core Set": 2, "T-65 X-Wing Expansion Pack": 1}, in.Bundles)
	assert.Equal(t, 1, in.Loose[catalog.KindPilot]["Luke Skywalker"])

	_, err = Decode(strings.NewReader("[bundles]\n\"Core Set\" = 1.5\n"), FormatTOML)
	var invalid InvalidEntries
	assert.ErrorAs(t, err, &invalid)
}

func TestDecodeYASB(t *testing.T) {
	for _, format := range []Format{FormatAuto, FormatJSON, FormatYASB} {
		t.Run(string(format), func(t *testing.T) {
			in, err := Decode(strings.NewReader(yasbJSON), format)
			require.NoError(t, err)
			assert.Equal(t, map[string]int{
				"Star Wars: X-Wing Second Edition Core Set": 1,
				"T-70 X-Wing Expansion Pack":                0,
			}, in.Bundles)
			assert.Equal(t, 1, in.Loose[catalog.KindShip]["T-65 X-wing"])
			assert.Equal(t, 2, in.Loose[catalog.KindPilot]["Black Squadron Ace (T-70)"])
		})
	}
}

func TestDecodeNegativeCount(t *testing.T) {
	in, err := Decode(strings.NewReader("bundles:\n  Core Set: -1\n  T-70 X-Wing Expansion Pack: 1\n"), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.NotContains(t, in.Bundles, "Core Set")
	assert.Equal(t, 1, in.Bundles["T-70 X-Wing Expansion Pack"])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"empty", "  \n", FormatAuto},
		{"broken json", `{"bundles": `, FormatJSON},
		{"unknown json field", `{"bundle": {"Core Set": 1}}`, FormatJSON},
		{"unknown yaml field", "ships:\n  X: 1\n", FormatYAML},
		{"broken yasb", `{"collection": []}`, FormatYASB},
		{"broken toml", "[bundles\n", FormatTOML},
		{"unknown toml table", "[ships]\nX = 1\n", FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
			var pe *errors.ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "mine.yaml")
	jsonPath := filepath.Join(dir, "yasb.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(nativeYAML), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(yasbJSON), 0o644))

	in, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Bundles["Core Set"])

	in, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Bundles["Star Wars: X-Wing Second Edition Core Set"])

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"bundles": 3}`), 0o644))
	_, err = Load(bad)
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, bad, pe.File)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("b.json"))
	assert.Equal(t, FormatTOML, FormatFromPath("c.toml"))
	assert.Equal(t, FormatAuto, FormatFromPath("b.txt"))

	f, err := ParseFormat("auto")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)
	f, err = ParseFormat("YASB")
	require.NoError(t, err)
	assert.Equal(t, FormatYASB, f)
	_, err = ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestToYASB(t *testing.T) {
	in, err := Decode(strings.NewReader(nativeYAML), FormatYAML)
	require.NoError(t, err)
	in.AddLoose(catalog.KindShip, "T-70 X-wing", 0)

	data, err := json.Marshal(ToYASB(in))
	require.NoError(t, err)

	back, err := Decode(strings.NewReader(string(data)), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, in.Bundles, back.Bundles)
	assert.Equal(t, in.Loose[catalog.KindUpgrade], back.Loose[catalog.KindUpgrade])
	assert.NotContains(t, back.Loose, catalog.KindShip)
}
