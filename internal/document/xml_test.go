package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<display typeId="org.csstudio.opibuilder.Display" version="1.0.0">
  <width>400</width>
  <height>300</height>
  <background_color>
    <color name="Canvas" red="240" green="240" blue="240" />
  </background_color>
  <macros>
    <include_parent_macros>true</include_parent_macros>
    <DEV>pump1</DEV>
  </macros>
  <widget typeId="org.csstudio.opibuilder.widgets.Rectangle" version="1.0.0">
    <wuid>-1a2b</wuid>
    <x>10</x>
    <y>20</y>
    <line_width>1.5</line_width>
    <transparent>false</transparent>
    <font>
      <opifont.name fontName="Liberation Sans" height="12" style="1">Header 1</opifont.name>
    </font>
    <actions hook="true" hook_all="false">
      <action type="WRITE_PV">
        <pv_name>loc://x</pv_name>
      </action>
      <action type="OPEN_DISPLAY" />
    </actions>
    <points>
      <point x="1" y="2" />
      <point x="3" y="4" />
    </points>
  </widget>
  <connection typeId="org.csstudio.opibuilder.widgets.polyline.connection">
    <src_wuid>-1a2b</src_wuid>
  </connection>
</display>`

func parseSample(t *testing.T) Node {
	t.Helper()
	root, err := ParseBytes([]byte(sample))
	require.NoError(t, err)
	return root
}

func TestParse_Structure(t *testing.T) {
	root := parseSample(t)
	assert.Equal(t, "display", root.Tag())
	typeID, ok := root.Attr("typeId")
	assert.True(t, ok)
	assert.Equal(t, "org.csstudio.opibuilder.Display", typeID)

	require.Len(t, Widgets(root), 1)
	require.Len(t, Connections(root), 1)
	assert.True(t, root.Has("width"))
	assert.False(t, root.Has("grid_space"))
}

func TestTypedGetters(t *testing.T) {
	root := parseSample(t)
	w := Widgets(root)[0]

	x, err := w.Int("x")
	require.NoError(t, err)
	assert.Equal(t, 10, x)

	lw, err := w.Float("line_width")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, lw, 1e-9)

	tr, err := w.Bool("transparent")
	require.NoError(t, err)
	assert.False(t, tr)

	id, err := w.String("wuid")
	require.NoError(t, err)
	assert.Equal(t, "-1a2b", id)

	bg, err := root.Color("background_color")
	require.NoError(t, err)
	assert.Equal(t, Color{Name: "Canvas", R: 240, G: 240, B: 240}, bg)

	f, err := w.Font("font")
	require.NoError(t, err)
	assert.Equal(t, Font{Name: "Header 1", Family: "Liberation Sans", Size: 12, Style: FontBold}, f)

	pts, err := w.Points("points")
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 2}, {3, 4}}, pts)

	m, err := root.Map("macros")
	require.NoError(t, err)
	assert.Equal(t, "pump1", m["DEV"])
}

func TestActions(t *testing.T) {
	w := Widgets(parseSample(t))[0]
	al, err := w.Actions("actions")
	require.NoError(t, err)
	assert.True(t, al.HookFirst)
	assert.False(t, al.HookAll)
	require.Len(t, al.Entries, 2)
	kind, _ := al.Entries[1].Attr("type")
	assert.Equal(t, "OPEN_DISPLAY", kind)
}

func TestGetterErrors(t *testing.T) {
	w := Widgets(parseSample(t))[0]

	_, err := w.Int("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = w.Int("wuid")
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = w.Color("x")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.opi")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	root, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "display", root.Tag())

	_, err = ParseFile(filepath.Join(t.TempDir(), "nope.opi"))
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := ParseBytes([]byte("<display><widget></display>"))
	assert.Error(t, err)
	_, err = ParseBytes([]byte(""))
	assert.Error(t, err)
}
