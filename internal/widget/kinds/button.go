package kinds

import (
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// actionButton runs one of its widget's actions when clicked. The button
// face is its own hit region, so it reacts whether or not the action set is
// click-hooked.
type actionButton struct {
	*widget.Base

	text         *property.Typed[string]
	pushIndex    *property.Typed[int]
	releaseIndex *property.Typed[int]
	toggle       *property.Typed[bool]

	area    *hit.Region
	pressed bool
	toggled bool
}

func newActionButton() widget.Widget {
	b := &actionButton{
		Base:         widget.NewBase("actionbutton"),
		text:         property.String("text", ""),
		pushIndex:    property.Int("push_action_index", 0),
		releaseIndex: property.Int("release_action_index", 0),
		toggle:       property.Bool("toggle_button", false),
	}
	for _, p := range []property.Property{b.text, b.pushIndex, b.releaseIndex, b.toggle} {
		b.Props.Add(p)
	}
	return b
}

func (b *actionButton) Init() error {
	b.area = &hit.Region{
		ID:          b.WUID() + "/area",
		Cursor:      "pointer",
		OnMouseDown: func(hit.Event) { b.setPressed(true) },
		OnMouseUp:   func(hit.Event) { b.setPressed(false) },
		OnMouseOut:  func(hit.Event) { b.setPressed(false) },
		OnClick:     func(hit.Event) { b.activate() },
	}
	return nil
}

func (b *actionButton) setPressed(p bool) {
	if p && !b.Enabled.Value() {
		return
	}
	if b.pressed != p {
		b.pressed = p
		b.Repaint()
	}
}

// activate runs the push action, or for a toggle button the push or release
// action depending on the new toggle state.
func (b *actionButton) activate() {
	if !b.Enabled.Value() {
		return
	}
	idx := b.pushIndex.Value()
	if b.toggle.Value() {
		b.toggled = !b.toggled
		if !b.toggled {
			idx = b.releaseIndex.Value()
		}
		b.Repaint()
	}
	if err := b.ExecuteAction(idx); err != nil {
		b.Log().WithError(err).WithField("index", idx).Warn("button action failed")
	}
}

// Pressed reports whether the face is drawn sunken.
func (b *actionButton) Pressed() bool { return b.pressed || b.toggled }

func (b *actionButton) DisplayValue() string { return b.ExpandMacro(b.text.Value()) }

func (b *actionButton) Draw(s raster.Surface, hc *hit.Canvas) {
	c := b.Content()
	b.FillBackground(s)
	widget.DrawBevel(s, c, b.Pressed())
	fg := b.Foreground.Value().RGBA()
	if !b.Enabled.Value() {
		fg = b.BorderColor.Value().RGBA()
	}
	tc := c
	if b.Pressed() {
		tc = tc.Translate(1, 1)
	}
	drawText(s, tc, b.DisplayValue(), alignCenter, alignCenter, fg)
	if hc != nil {
		hc.BeginRegion(b.area)
		hc.Surface().FillRect(c.X, c.Y, c.Width, c.Height)
	}
}
