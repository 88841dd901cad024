package display_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mj1618/opi-cli/internal/display"
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/loader"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mj1618/opi-cli/internal/widget/kinds"
)

const widgetNS = "org.csstudio.opibuilder.widgets."

func displayXML(w, h int, body string) string {
	return fmt.Sprintf(`<display typeId="org.csstudio.opibuilder.Display" version="1.0.0">
<width>%d</width><height>%d</height>%s</display>`, w, h, body)
}

func widgetXML(kind, wuid string, x, y, w, h int, extra string) string {
	return fmt.Sprintf(`<widget typeId="%s%s" version="1.0.0"><wuid>%s</wuid><name>%s</name>
<x>%d</x><y>%d</y><width>%d</width><height>%d</height>%s</widget>`, widgetNS, kind, wuid, wuid, x, y, w, h, extra)
}

const runLS = `<actions hook="true" hook_all="false"><action type="RUN_COMMAND"><command>ls</command></action></actions>`

type fixture struct {
	host   *host.Provider
	viewer *display.Viewer
}

func newFixture(t *testing.T, src string, files map[string]string) *fixture {
	t.Helper()
	root, err := document.ParseBytes([]byte(src))
	require.NoError(t, err)

	l, err := loader.New(loader.Options{Source: func(ctx context.Context, path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(data), nil
	}})
	require.NoError(t, err)

	p := host.NewProvider(host.Options{AutoConfirm: true})
	v, err := display.NewViewer(root, p.Context("/d", nil), l, hit.WithSeed(7))
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return &fixture{host: p, viewer: v}
}

func settle(t *testing.T, v *display.Viewer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, v.Settle(ctx))
}

func TestViewer_RectangleHolderRegionOnlyWhenHooked(t *testing.T) {
	border := `<border_style>1</border_style><border_width>2</border_width>`
	f := newFixture(t, displayXML(200, 100,
		widgetXML("Rectangle", "plain", 10, 10, 50, 50, border)+
			widgetXML("Rectangle", "hooked", 100, 10, 50, 50, border+runLS)), nil)

	els := f.viewer.Snapshot()
	require.Len(t, els, 2)
	assert.Equal(t, [4]int{10, 10, 50, 50}, els[0].Bounds)
	assert.Equal(t, [4]int{12, 12, 46, 46}, els[0].Content)
	assert.False(t, els[0].Clickable)
	assert.True(t, els[1].Clickable)

	assert.Nil(t, f.viewer.Probe(30, 30))
	r := f.viewer.Probe(120, 30)
	require.NotNil(t, r)
	assert.Equal(t, "hooked", r.ID)

	f.viewer.Click(120, 30, 1)
	ev := f.host.Events.Events()
	require.Len(t, ev, 1)
	assert.Equal(t, "runcommand", ev[0].Kind)
	assert.Equal(t, "hooked", ev[0].Payload["wuid"])
}

func TestViewer_ButtonArea(t *testing.T) {
	btn := `<text>Go</text><actions hook="false" hook_all="false"><action type="RUN_COMMAND"><command>go</command></action></actions>`
	f := newFixture(t, displayXML(200, 100, widgetXML("ActionButton", "b1", 20, 20, 60, 30, btn)), nil)

	r := f.viewer.Move(50, 35)
	require.NotNil(t, r)
	assert.Equal(t, "b1/area", r.ID)
	assert.Equal(t, "pointer", f.viewer.Dispatcher().Cursor())

	frames := f.viewer.Frames()
	f.viewer.Down(50, 35, 1)
	assert.Greater(t, f.viewer.Frames(), frames, "pressing repaints")
	f.viewer.Up(50, 35, 1)
	assert.Empty(t, f.host.Events.Events())

	f.viewer.Click(50, 35, 1)
	ev := f.host.Events.Events()
	require.Len(t, ev, 1)
	assert.Equal(t, "go", ev[0].Payload["command"])

	el := model.FindByWUID(f.viewer.Snapshot(), "b1")
	require.NotNil(t, el)
	assert.Equal(t, "Go", el.Value)
	assert.Equal(t, []string{"Run go"}, el.Actions)
}

func TestViewer_WritePVButtonDrivesLED(t *testing.T) {
	btn := `<actions hook="false"><action type="WRITE_PV"><pv_name>loc://pump</pv_name><value>1</value></action></actions>`
	led := `<pv_name>loc://pump(0)</pv_name>`
	f := newFixture(t, displayXML(200, 100,
		widgetXML("ActionButton", "b1", 0, 0, 50, 30, btn)+
			widgetXML("LED", "l1", 100, 0, 30, 30, led)), nil)

	assert.Equal(t, "off", model.FindByWUID(f.viewer.Snapshot(), "l1").Value)
	f.viewer.Click(25, 15, 1)
	assert.Equal(t, "on", model.FindByWUID(f.viewer.Snapshot(), "l1").Value)
	assert.Equal(t, []string{"pump"}, f.host.PV.Names())
}

func TestViewer_GroupOffsetsChildren(t *testing.T) {
	child := widgetXML("ActionButton", "inner", 10, 10, 40, 20,
		`<actions hook="false"><action type="RUN_COMMAND"><command>x</command></action></actions>`)
	grp := widgetXML("groupingContainer", "g", 100, 100, 80, 60, child)
	f := newFixture(t, displayXML(300, 300, grp), nil)

	g := model.FindByWUID(f.viewer.Snapshot(), "g")
	require.NotNil(t, g)
	require.Len(t, g.Children, 1)
	assert.Equal(t, [4]int{110, 110, 40, 20}, g.Children[0].Bounds)
	assert.NotNil(t, f.viewer.Instance().Find("inner"))

	r := f.viewer.Probe(130, 120)
	require.NotNil(t, r)
	assert.Equal(t, "inner/area", r.ID)
	assert.Nil(t, f.viewer.Probe(20, 20))
}

func TestViewer_LinkingContainerLoadsAndScales(t *testing.T) {
	sub := displayXML(100, 50, widgetXML("ActionButton", "sub_btn", 0, 0, 100, 50,
		`<text>$(LABEL)</text><actions hook="false"><action type="RUN_COMMAND"><command>sub</command></action></actions>`))
	link := widgetXML("linkingContainer", "link", 0, 0, 200, 100,
		`<opi_file>sub.opi</opi_file><resize_behaviour>0</resize_behaviour><macros><include_parent_macros>true</include_parent_macros><LABEL>Hi</LABEL></macros>`)
	f := newFixture(t, displayXML(300, 200, link), map[string]string{"/d/sub.opi": sub})

	assert.Nil(t, f.viewer.Probe(150, 90), "nothing to hit before the load completes")
	settle(t, f.viewer)

	r := f.viewer.Probe(150, 90)
	require.NotNil(t, r)
	assert.Equal(t, "sub_btn/area", r.ID)

	el := model.FindByWUID(f.viewer.Snapshot(), "sub_btn")
	require.NotNil(t, el)
	assert.Equal(t, [4]int{0, 0, 200, 100}, el.Bounds)
	assert.Equal(t, "Hi", el.Value)
	assert.Nil(t, f.viewer.Instance().Find("sub_btn"), "embedded wuids stay scoped")

	f.viewer.Click(150, 90, 1)
	ev := f.host.Events.Events()
	require.Len(t, ev, 1)
	assert.Equal(t, "sub", ev[0].Payload["command"])
}

func TestViewer_ChildBackgroundLeavesParentReachable(t *testing.T) {
	sub := displayXML(100, 50, widgetXML("ActionButton", "small", 0, 0, 20, 20,
		`<actions><action type="RUN_COMMAND"><command>s</command></action></actions>`))
	body := widgetXML("Rectangle", "under", 0, 0, 200, 100, runLS) +
		widgetXML("linkingContainer", "link", 0, 0, 100, 50,
			`<opi_file>sub.opi</opi_file><resize_behaviour>2</resize_behaviour>`)
	f := newFixture(t, displayXML(300, 200, body), map[string]string{"/d/sub.opi": sub})
	settle(t, f.viewer)

	assert.Equal(t, "small/area", f.viewer.Probe(10, 10).ID)
	assert.Equal(t, "under", f.viewer.Probe(60, 30).ID)
}

func TestViewer_DisposeDropsPendingLoad(t *testing.T) {
	release := make(chan struct{})
	root, err := document.ParseBytes([]byte(displayXML(100, 100,
		widgetXML("linkingContainer", "link", 0, 0, 100, 100, `<opi_file>slow.opi</opi_file>`))))
	require.NoError(t, err)
	l, err := loader.New(loader.Options{Source: func(ctx context.Context, path string) ([]byte, error) {
		<-release
		return []byte(displayXML(10, 10, "")), nil
	}})
	require.NoError(t, err)

	v, err := display.NewViewer(root, nil, l)
	require.NoError(t, err)
	v.Close()
	close(release)
	settle(t, v)

	el := model.FindByWUID(v.Snapshot(), "link")
	require.NotNil(t, el)
	assert.Empty(t, el.Children)
}

func TestViewer_MissingEmbeddedFileIsSoft(t *testing.T) {
	f := newFixture(t, displayXML(100, 100,
		widgetXML("linkingContainer", "link", 0, 0, 100, 100, `<opi_file>gone.opi</opi_file>`)), nil)
	settle(t, f.viewer)
	assert.Empty(t, model.FindByWUID(f.viewer.Snapshot(), "link").Children)
}

func TestViewer_SelfEmbeddingDisplayStopsAtOneLevel(t *testing.T) {
	self := displayXML(100, 100,
		widgetXML("linkingContainer", "link", 0, 0, 100, 100, `<opi_file>self.opi</opi_file>`))
	f := newFixture(t, self, map[string]string{"/d/self.opi": self})
	settle(t, f.viewer)

	outer := model.FindByWUID(f.viewer.Snapshot(), "link")
	require.NotNil(t, outer)
	require.Len(t, outer.Children, 1)
	assert.Equal(t, "link", outer.Children[0].WUID)
	assert.Empty(t, outer.Children[0].Children)
	assert.False(t, f.viewer.Dirty())
}

func TestViewer_MutuallyEmbeddingDisplaysTerminate(t *testing.T) {
	a := displayXML(100, 100,
		widgetXML("linkingContainer", "to_b", 0, 0, 100, 100, `<opi_file>b.opi</opi_file>`))
	b := displayXML(100, 100,
		widgetXML("linkingContainer", "to_a", 0, 0, 100, 100, `<opi_file>a.opi</opi_file>`))
	f := newFixture(t, a, map[string]string{"/d/a.opi": a, "/d/b.opi": b})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, f.viewer.Settle(ctx))
	assert.Less(t, time.Since(start), time.Second)

	toB := model.FindByWUID(f.viewer.Snapshot(), "to_b")
	require.NotNil(t, toB)
	require.Len(t, toB.Children, 1)
	toA := toB.Children[0]
	assert.Equal(t, "to_a", toA.WUID)
	require.Len(t, toA.Children, 1)
	assert.Equal(t, "to_b", toA.Children[0].WUID)
	assert.Empty(t, toA.Children[0].Children)
}

func TestLoad_SkipsBadWidgetsKeepsOthers(t *testing.T) {
	body := widgetXML("XYGraph", "unknown", 0, 0, 10, 10, "") +
		widgetXML("Rectangle", "bad", 0, 0, 10, 10, "<border_width>wide</border_width>") +
		widgetXML("Label", "ok", 0, 0, 10, 10, "<text>fine</text>")
	root, err := document.ParseBytes([]byte(displayXML(100, 100, body)))
	require.NoError(t, err)

	d, err := display.Load(root, nil)
	require.NoError(t, err)
	require.Len(t, d.Widgets(), 1)
	assert.Equal(t, "ok", d.Widgets()[0].Core().WUID())
}

func TestLoad_DisplayPropertyErrorFails(t *testing.T) {
	root, err := document.ParseBytes([]byte(`<display><width>wide</width></display>`))
	require.NoError(t, err)
	_, err = display.Load(root, nil)
	assert.ErrorIs(t, err, property.ErrUnexpectedType)
}

func TestConnections(t *testing.T) {
	conn := func(src, st, tgt, tt string) string {
		return fmt.Sprintf(`<connection><src_wuid>%s</src_wuid><src_term>%s</src_term><tgt_wuid>%s</tgt_wuid><tgt_term>%s</tgt_term></connection>`, src, st, tgt, tt)
	}
	body := widgetXML("Rectangle", "a", 0, 0, 20, 20, "") +
		widgetXML("Rectangle", "b", 100, 100, 20, 20, "") +
		conn("a", "RIGHT", "b", "TOP") +
		conn("a", "RIGHT", "missing", "TOP") +
		conn("a", "SIDEWAYS", "b", "TOP")
	root, err := document.ParseBytes([]byte(displayXML(200, 200, body)))
	require.NoError(t, err)

	d, err := display.Load(root, nil)
	require.NoError(t, err)
	cs := d.Connections()
	require.Len(t, cs, 2, "bad terminal aborts only that connection")

	assert.True(t, cs[0].Resolved())
	pts := cs[0].Route()
	require.Len(t, pts, 3)
	assert.Equal(t, 20.0, pts[0].X)
	assert.Equal(t, 10.0, pts[0].Y)
	assert.Equal(t, 110.0, pts[2].X)
	assert.Equal(t, 100.0, pts[2].Y)

	assert.False(t, cs[1].Resolved())
	assert.Nil(t, cs[1].Route())
}

func TestParseTerminal(t *testing.T) {
	_, err := display.ParseTerminal("NOWHERE")
	assert.ErrorIs(t, err, display.ErrUnknownTerminal)
	term, err := display.ParseTerminal("CENTER")
	require.NoError(t, err)
	assert.Equal(t, display.TerminalCenter, term)
}
