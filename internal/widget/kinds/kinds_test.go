package kinds

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/pv"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, kind, body string, ctx *widget.Context) widget.Widget {
	t.Helper()
	n, err := document.ParseBytes([]byte("<widget>" + body + "</widget>"))
	require.NoError(t, err)
	if ctx == nil {
		ctx = &widget.Context{}
	}
	w, err := widget.Build(kind, n, ctx)
	require.NoError(t, err)
	return w
}

func paint(w widget.Widget, size int) (*raster.Canvas, *hit.Canvas) {
	s := raster.NewCanvas(size, size)
	s.Clear(color.RGBA{A: 255})
	hc := hit.NewCanvas(size, size, hit.WithSeed(11))
	widget.Paint(w, s, hc)
	return s, hc
}

// queueFetcher holds loads until flush.
type queueFetcher struct {
	data map[string][]byte
	q    []func()
}

func (f *queueFetcher) Fetch(path string, done func([]byte, error)) {
	f.q = append(f.q, func() {
		d, ok := f.data[path]
		if !ok {
			done(nil, errors.New("missing "+path))
			return
		}
		done(d, nil)
	})
}

func (f *queueFetcher) flush() {
	q := f.q
	f.q = nil
	for _, fn := range q {
		fn()
	}
}

func TestRegistry_AllKinds(t *testing.T) {
	for _, k := range []string{
		"rectangle", "roundedrectangle", "ellipse", "label", "textupdate", "actionbutton",
		"led", "polyline", "polygon", "image", "groupingcontainer", "linkingcontainer",
	} {
		_, ok := widget.Lookup(k)
		assert.True(t, ok, k)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, 1, int64(2), 0.5, "on", "yes"} {
		assert.True(t, truthy(v), "%v", v)
	}
	for _, v := range []any{nil, false, 0, 0.0, "", "0", "FALSE", " off "} {
		assert.False(t, truthy(v), "%v", v)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3.14", formatValue(3.14159, 2))
	assert.Equal(t, "3.14159", formatValue(3.14159, -1))
	assert.Equal(t, "idle", formatValue("idle", 2))
	assert.Equal(t, "7", formatValue(7, 2))
	assert.Equal(t, "", formatValue(nil, 0))
}

func TestLevelBox(t *testing.T) {
	b := geom.Box{X: 0, Y: 0, Width: 100, Height: 50}
	assert.Equal(t, geom.Box{X: 0, Y: 25, Width: 100, Height: 25}, levelBox(b, 50, false))
	assert.Equal(t, geom.Box{X: 0, Y: 0, Width: 30, Height: 50}, levelBox(b, 30, true))
	assert.Equal(t, geom.Box{X: 0, Y: 0, Width: 100, Height: 50}, levelBox(b, 150, false))
}

func TestRectangle_FillLevel(t *testing.T) {
	w := build(t, "rectangle", `<width>40</width><height>40</height><fill_level>50</fill_level>
<background_color><color red="255" green="0" blue="0"/></background_color>
<foreground_color><color red="0" green="0" blue="255"/></foreground_color>`, nil)
	s, _ := paint(w, 60)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, s.At(20, 5))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, s.At(20, 35))
}

func TestRectangle_Transparent(t *testing.T) {
	w := build(t, "rectangle", `<width>40</width><height>40</height><transparent>true</transparent>`, nil)
	s, _ := paint(w, 60)
	assert.Equal(t, color.RGBA{A: 255}, s.At(20, 20))
}

func TestEllipse_CornersUntouched(t *testing.T) {
	w := build(t, "ellipse", `<width>40</width><height>40</height>
<background_color><color red="255" green="255" blue="255"/></background_color>`, nil)
	s, _ := paint(w, 60)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, s.At(20, 20))
	assert.Equal(t, color.RGBA{A: 255}, s.At(1, 1))
}

func TestLED_FollowsPV(t *testing.T) {
	eng := pv.NewLocal()
	w := build(t, "led", `<width>20</width><height>20</height><pv_name>loc://on(0)</pv_name><square_led>true</square_led><bulb_border>0</bulb_border>`,
		&widget.Context{PV: eng})
	l := w.(*led)
	assert.False(t, l.On())
	s, _ := paint(w, 30)
	assert.Equal(t, document.DarkGreen.RGBA(), s.At(10, 10))

	require.NoError(t, eng.SetValue("on", "1"))
	assert.True(t, l.On())
	s, _ = paint(w, 30)
	assert.Equal(t, document.Green.RGBA(), s.At(10, 10))
}

func TestTextUpdate_Value(t *testing.T) {
	eng := pv.NewLocal()
	w := build(t, "textupdate", `<pv_name>loc://t</pv_name><precision>1</precision><units>mm</units>`,
		&widget.Context{PV: eng})
	tu := w.(widget.Valuer)
	assert.Equal(t, "######", tu.DisplayValue())
	require.NoError(t, eng.SetValue("t", 2.345))
	assert.Equal(t, "2.3 mm", tu.DisplayValue())
}

func TestLabel_MacroText(t *testing.T) {
	w := build(t, "label", `<text>Pump $(N)</text>`, &widget.Context{Macros: map[string]string{"N": "3"}})
	assert.Equal(t, "Pump 3", w.(widget.Valuer).DisplayValue())
}

func TestActionButton_Toggle(t *testing.T) {
	var fired []string
	sink := sinkFunc(func(kind string, p map[string]any) { fired = append(fired, p["command"].(string)) })
	w := build(t, "actionbutton", `<toggle_button>true</toggle_button><push_action_index>0</push_action_index><release_action_index>1</release_action_index>
<actions hook="false"><action type="RUN_COMMAND"><command>start</command></action><action type="RUN_COMMAND"><command>stop</command></action></actions>`,
		&widget.Context{Events: sink})
	b := w.(*actionButton)
	_, hc := paint(w, 120)
	require.Same(t, b.area, hc.RegionAt(10, 10))

	b.area.OnClick.Fire(hit.Event{})
	assert.True(t, b.Pressed())
	b.area.OnClick.Fire(hit.Event{})
	assert.False(t, b.Pressed())
	assert.Equal(t, []string{"start", "stop"}, fired)
}

func TestActionButton_DisabledIgnoresInput(t *testing.T) {
	var fired int
	sink := sinkFunc(func(string, map[string]any) { fired++ })
	w := build(t, "actionbutton", `<enabled>false</enabled>
<actions><action type="RUN_COMMAND"><command>x</command></action></actions>`, &widget.Context{Events: sink})
	b := w.(*actionButton)
	b.area.OnMouseDown.Fire(hit.Event{})
	assert.False(t, b.Pressed())
	b.area.OnClick.Fire(hit.Event{})
	assert.Zero(t, fired)
}

func TestPolygon_FillsInterior(t *testing.T) {
	w := build(t, "polygon", `<line_width>0</line_width>
<background_color><color red="0" green="255" blue="0"/></background_color>
<points><point x="0" y="0"/><point x="40" y="0"/><point x="40" y="40"/><point x="0" y="40"/></points>`, nil)
	s, _ := paint(w, 60)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, s.At(20, 20))
	assert.Equal(t, color.RGBA{A: 255}, s.At(50, 50))
}

func TestPolyline_TooFewPoints(t *testing.T) {
	w := build(t, "polyline", `<points><point x="1" y="1"/></points>`, nil)
	s, _ := paint(w, 10)
	assert.Equal(t, color.RGBA{A: 255}, s.At(1, 1))
}

func TestImage_AsyncLoad(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	f := &queueFetcher{data: map[string][]byte{"/img/a.png": buf.Bytes()}}
	repaints := 0
	ctx := &widget.Context{Fetcher: f, BaseDir: "/img", Repaint: func() { repaints++ }}
	w := build(t, "image", `<width>8</width><height>8</height><image_file>a.png</image_file><stretch_to_fit>true</stretch_to_fit>`, ctx)
	iw := w.(*imageWidget)
	assert.Nil(t, iw.Image())

	f.flush()
	require.NotNil(t, iw.Image())
	assert.Equal(t, 1, repaints)
	s, _ := paint(w, 10)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, s.At(7, 7))
}

func TestImage_LoadAfterDisposeIsDropped(t *testing.T) {
	f := &queueFetcher{data: map[string][]byte{"a.png": []byte("x")}}
	w := build(t, "image", `<image_file>a.png</image_file>`, &widget.Context{Fetcher: f})
	widget.Dispose(w)
	f.flush()
	assert.Nil(t, w.(*imageWidget).err)
}

func TestGroup_ChildrenAndTransform(t *testing.T) {
	w := build(t, "groupingcontainer", `<x>10</x><y>20</y><width>100</width><height>100</height>
<border_style>1</border_style><border_width>2</border_width>
<widget typeId="org.csstudio.opibuilder.widgets.Label"><wuid>c</wuid></widget>
<widget typeId="org.csstudio.opibuilder.widgets.Nope"><wuid>n</wuid></widget>`, nil)
	g := w.(*group)
	require.Len(t, g.Children(), 1)
	dx, dy, sx, sy := g.ChildTransform()
	assert.Equal(t, []float64{12, 22, 1, 1}, []float64{dx, dy, sx, sy})

	widget.Dispose(w)
	assert.True(t, g.Children()[0].Core().Disposed())
}

type sinkFunc func(kind string, payload map[string]any)

func (f sinkFunc) FireEvent(kind string, payload map[string]any) { f(kind, payload) }
