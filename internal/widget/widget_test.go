package widget

import (
	"errors"
	"testing"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct {
	*Base
	label *property.Typed[string]
	area  *hit.Region
	draws int
	gone  bool
}

func newBox() Widget {
	b := &box{Base: NewBase("box"), label: property.String("label", "").NoDefault()}
	b.Props.Add(b.label)
	return b
}

func (b *box) Init() error {
	b.area = &hit.Region{ID: b.WUID() + "/area"}
	return nil
}

func (b *box) Draw(s raster.Surface, hc *hit.Canvas) {
	b.draws++
	c := b.Content()
	hc.BeginRegion(b.area)
	hc.Surface().FillRect(c.X+10, c.Y+10, 5, 5)
}

func (b *box) Dispose() { b.gone = true }

func init() { Register("box", newBox) }

func parse(t *testing.T, src string) document.Node {
	t.Helper()
	n, err := document.ParseBytes([]byte(src))
	require.NoError(t, err)
	return n
}

func TestBuild_ContentBoxAndHolderRegion(t *testing.T) {
	cases := []struct {
		name       string
		actions    string
		wantRegion bool
	}{
		{"hooked", `<actions hook="true"><action type="RUN_COMMAND"><command>ls</command></action></actions>`, true},
		{"not hooked", `<actions hook="false" hook_all="false"><action type="RUN_COMMAND"><command>ls</command></action></actions>`, false},
		{"no actions", ``, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := parse(t, `<widget><label>a</label><border_style>1</border_style><border_width>2</border_width>
<x>0</x><y>0</y><width>50</width><height>50</height>`+tc.actions+`</widget>`)
			w, err := Build("box", n, &Context{})
			require.NoError(t, err)
			b := w.Core()
			assert.Equal(t, Drawable, b.State())
			assert.Equal(t, geom.Box{X: 2, Y: 2, Width: 46, Height: 46}, b.Content())
			assert.Equal(t, geom.Box{X: 0, Y: 0, Width: 50, Height: 50}, b.Holder())
			assert.Equal(t, tc.wantRegion, b.HolderRegion != nil)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build("nope", parse(t, `<widget/>`), &Context{})
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = Build("box", parse(t, `<widget/>`), &Context{})
	assert.True(t, errors.Is(err, property.ErrMissingProperty))

	_, err = Build("box", parse(t, `<widget><label>a</label><x>left</x></widget>`), &Context{})
	assert.True(t, errors.Is(err, property.ErrUnexpectedType))
}

func TestUpdateBounds_FollowsBorderChanges(t *testing.T) {
	w, err := Build("box", parse(t, `<widget><label>a</label><width>40</width><height>40</height></widget>`), &Context{})
	require.NoError(t, err)
	b := w.Core()
	assert.Equal(t, b.Holder(), b.Content())

	b.BorderStyle.Set(int(geom.BorderTitleBar))
	s := raster.NewCanvas(100, 100)
	Paint(w, s, hit.NewCanvas(100, 100, hit.WithSeed(1)))
	assert.Equal(t, geom.Insets{Top: 17, Left: 1, Bottom: 1, Right: 1}, b.Insets())
	assert.Equal(t, geom.Box{X: 1, Y: 17, Width: 38, Height: 22}, b.Content())
}

func TestPaint_RegistersHolderThenSubRegion(t *testing.T) {
	n := parse(t, `<widget><label>a</label><x>10</x><y>10</y><width>40</width><height>40</height>
<actions hook="true"><action type="RUN_COMMAND"><command>ls</command></action></actions></widget>`)
	w, err := Build("box", n, &Context{})
	require.NoError(t, err)
	bx := w.(*box)

	hc := hit.NewCanvas(100, 100, hit.WithSeed(2))
	Paint(w, raster.NewCanvas(100, 100), hc)
	assert.Equal(t, 1, bx.draws)
	assert.Same(t, bx.HolderRegion, hc.RegionAt(12, 12))
	assert.Same(t, bx.area, hc.RegionAt(22, 22))
	assert.Nil(t, hc.RegionAt(5, 5))

	bx.Visible.Set(false)
	hc.Clear()
	Paint(w, raster.NewCanvas(100, 100), hc)
	assert.Equal(t, 1, bx.draws)
	assert.Nil(t, hc.RegionAt(12, 12))
}

func TestHolderClick_RunsHookedActions(t *testing.T) {
	sink := &recordingSink{}
	n := parse(t, `<widget><label>a</label><actions hook="true"><action type="RUN_COMMAND"><command>run $(P)</command></action></actions></widget>`)
	w, err := Build("box", n, &Context{Events: sink, Macros: map[string]string{"P": "x"}})
	require.NoError(t, err)

	w.Core().HolderRegion.OnClick.Fire(hit.Event{})
	require.Len(t, sink.kinds, 1)
	assert.Equal(t, "runcommand", sink.kinds[0])
	assert.Equal(t, "run x", sink.payloads[0]["command"])

	w.Core().Enabled.Set(false)
	w.Core().HolderRegion.OnClick.Fire(hit.Event{})
	assert.Len(t, sink.kinds, 1)
}

type recordingSink struct {
	kinds    []string
	payloads []map[string]any
}

func (s *recordingSink) FireEvent(kind string, payload map[string]any) {
	s.kinds = append(s.kinds, kind)
	s.payloads = append(s.payloads, payload)
}

type queuedFetcher struct {
	pending []func()
}

func (f *queuedFetcher) Fetch(path string, done func([]byte, error)) {
	f.pending = append(f.pending, func() { done([]byte(path), nil) })
}

func TestFetch_DroppedAfterDispose(t *testing.T) {
	f := &queuedFetcher{}
	repaints := 0
	ctx := &Context{Fetcher: f, Repaint: func() { repaints++ }}
	w, err := Build("box", parse(t, `<widget><label>a</label></widget>`), ctx)
	require.NoError(t, err)

	var got []string
	w.Core().Fetch("a.png", func(data []byte, err error) { got = append(got, string(data)) })
	w.Core().Fetch("b.png", func(data []byte, err error) { got = append(got, string(data)) })
	f.pending[0]()
	Dispose(w)
	f.pending[1]()

	assert.Equal(t, []string{"a.png"}, got)
	assert.Equal(t, 1, repaints)
	assert.True(t, w.(*box).gone)
	assert.Equal(t, Disposed, w.Core().State())

	Paint(w, raster.NewCanvas(10, 10), hit.NewCanvas(10, 10))
	assert.Equal(t, 0, w.(*box).draws)
}

func TestExpandMacros(t *testing.T) {
	m := map[string]string{"DEV": "pump1", "N": "3"}
	assert.Equal(t, "pump1:speed3", ExpandMacros("$(DEV):speed${N}", m))
	assert.Equal(t, "$(OTHER)", ExpandMacros("$(OTHER)", m))
	assert.Equal(t, "plain", ExpandMacros("plain", nil))
}

func TestContextDerive(t *testing.T) {
	parent := &Context{Macros: map[string]string{"A": "1", "B": "2"}}
	child := parent.Derive(map[string]string{"B": "3"})
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, child.Macros)
	assert.Equal(t, "2", parent.Macros["B"])
}

func TestContextDerive_AncestorsAreCopied(t *testing.T) {
	parent := &Context{Ancestors: make([]string, 1, 4)}
	parent.Ancestors[0] = "/d/a.opi"
	child := parent.Derive(nil)
	child.Ancestors = append(child.Ancestors, "/d/b.opi")
	other := parent.Derive(nil)
	other.Ancestors = append(other.Ancestors, "/d/c.opi")

	assert.Equal(t, []string{"/d/a.opi", "/d/b.opi"}, child.Ancestors)
	assert.True(t, child.Within("/d/x/../b.opi"))
	assert.False(t, parent.Within("/d/b.opi"))
	assert.False(t, (*Context)(nil).Within("/d/a.opi"))
}

func TestKindFromTypeID(t *testing.T) {
	assert.Equal(t, "actionbutton", KindFromTypeID("org.csstudio.opibuilder.widgets.ActionButton"))
	assert.Equal(t, "linkingcontainer", KindFromTypeID("org.csstudio.opibuilder.widgets.linkingContainer"))
	assert.Equal(t, "rectangle", KindFromTypeID("Rectangle"))
}
