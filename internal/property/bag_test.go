package property

import (
	"errors"
	"testing"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetXML = `<widget typeId="org.csstudio.opibuilder.widgets.Rectangle">
  <name>Tank</name>
  <x>12</x>
  <alpha>0.5</alpha>
  <visible>false</visible>
  <background_color><color red="1" green="2" blue="3"/></background_color>
  <points><point x="0" y="0"/><point x="5" y="5"/></points>
  <actions hook="false" hook_all="true"><action type="WRITE_PV"/></actions>
</widget>`

func node(t *testing.T, src string) document.Node {
	t.Helper()
	n, err := document.ParseBytes([]byte(src))
	require.NoError(t, err)
	return n
}

func newBag() *Bag {
	b := NewBag("rectangle")
	b.Add(String("name", ""))
	b.Add(Int("x", 0))
	b.Add(Int("y", 7))
	b.Add(Float("alpha", 1))
	b.Add(Bool("visible", true))
	b.Add(Color("background_color", document.White))
	b.Add(Points("points"))
	b.Add(Actions("actions"))
	return b
}

func TestLoad_HydratesPresentAndKeepsDefaults(t *testing.T) {
	b := newBag()
	require.NoError(t, b.Load(node(t, widgetXML)))

	name, err := Get[string](b, "name")
	require.NoError(t, err)
	assert.Equal(t, "Tank", name)

	x, _ := Get[int](b, "x")
	y, _ := Get[int](b, "y")
	assert.Equal(t, 12, x)
	assert.Equal(t, 7, y, "absent property keeps its default")

	visible, _ := Get[bool](b, "visible")
	assert.False(t, visible)

	bg, _ := Get[document.Color](b, "background_color")
	assert.Equal(t, document.Color{R: 1, G: 2, B: 3}, bg)

	pts, _ := Get[[]document.Point](b, "points")
	assert.Len(t, pts, 2)

	al, _ := Get[document.ActionList](b, "actions")
	assert.True(t, al.HookAll)
	assert.Len(t, al.Entries, 1)
}

func TestLoad_Idempotent(t *testing.T) {
	n := node(t, widgetXML)
	b := newBag()
	require.NoError(t, b.Load(n))
	first := b.Snapshot()
	require.NoError(t, b.Load(n))
	assert.Equal(t, first, b.Snapshot())
}

func TestLoad_TypeMismatch(t *testing.T) {
	b := NewBag("led")
	b.Add(Int("x", 0))
	err := b.Load(node(t, `<widget><x>left</x></widget>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedType))
	assert.True(t, errors.Is(err, document.ErrInvalid))
	assert.Contains(t, err.Error(), "led")
	assert.Contains(t, err.Error(), `"x"`)
}

func TestValue_MissingRequired(t *testing.T) {
	b := NewBag("action_button")
	b.Add(String("pv_name", "").NoDefault())

	_, err := b.Value("pv_name", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingProperty))
	assert.Contains(t, err.Error(), "action_button")
	assert.Contains(t, err.Error(), "pv_name")

	v, err := b.Value("pv_name", true)
	assert.NoError(t, err)
	assert.Nil(t, v)

	assert.True(t, errors.Is(b.Validate(), ErrMissingProperty))
	require.NoError(t, b.Load(node(t, `<action><pv_name>loc://a</pv_name></action>`)))
	assert.NoError(t, b.Validate())
}

func TestAdd_Overwrites(t *testing.T) {
	b := NewBag("label")
	b.Add(Int("x", 1))
	b.Add(String("text", ""))
	b.Add(Int("x", 2))
	assert.Equal(t, []string{"x", "text"}, b.Names())
	x, err := Get[int](b, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, x)
}

func TestSet(t *testing.T) {
	b := newBag()
	require.NoError(t, b.Set("x", 40))
	x, _ := Get[int](b, "x")
	assert.Equal(t, 40, x)

	assert.True(t, errors.Is(b.Set("x", "forty"), ErrUnexpectedType))
	assert.True(t, errors.Is(b.Set("nope", 1), ErrUnknownProperty))

	_, err := Get[string](b, "x")
	assert.True(t, errors.Is(err, ErrUnexpectedType))
}

func TestTyped_Reset(t *testing.T) {
	p := Int("width", 100)
	p.Set(5)
	p.Reset()
	assert.Equal(t, 100, p.Value())

	q := Float("min", 0).NoDefault()
	assert.False(t, q.Defined())
	q.Set(3)
	q.Reset()
	assert.False(t, q.Defined())
}

func TestValue_UnknownName(t *testing.T) {
	b := newBag()
	_, err := b.Value("no_such", false)
	assert.True(t, errors.Is(err, ErrMissingProperty))
	v, err := b.Value("no_such", true)
	assert.NoError(t, err)
	assert.Nil(t, v)
}
