package geom

// BorderStyle is the closed set of widget border styles, numbered as they
// appear in the border_style property of a display document.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderLine
	BorderRaised
	BorderLowered
	BorderEtched
	BorderRidged
	BorderButtonRaised
	BorderButtonPressed
	BorderDot
	BorderDash
	BorderDashDot
	BorderDashDotDot
	BorderTitleBar
	BorderGroupBox
	BorderRoundRectangleBackground
	BorderEmpty
)

// titleBarHeight is the height reserved above the content of a Title Bar border.
const titleBarHeight = 16

var borderStyleNames = map[BorderStyle]string{
	BorderNone:                     "none",
	BorderLine:                     "line",
	BorderRaised:                   "raised",
	BorderLowered:                  "lowered",
	BorderEtched:                   "etched",
	BorderRidged:                   "ridged",
	BorderButtonRaised:             "button-raised",
	BorderButtonPressed:            "button-pressed",
	BorderDot:                      "dot",
	BorderDash:                     "dash",
	BorderDashDot:                  "dash-dot",
	BorderDashDotDot:               "dash-dot-dot",
	BorderTitleBar:                 "title-bar",
	BorderGroupBox:                 "group-box",
	BorderRoundRectangleBackground: "round-rectangle-background",
	BorderEmpty:                    "empty",
}

func (s BorderStyle) String() string {
	if name, ok := borderStyleNames[s]; ok {
		return name
	}
	return "unknown"
}

// Dashed reports whether the style strokes its line with a dash pattern.
func (s BorderStyle) Dashed() bool {
	return s >= BorderDot && s <= BorderDashDotDot
}

// Insets are the space a border reserves on each side of a holder box.
type Insets struct {
	Top, Left, Bottom, Right int
}

// Array returns the insets in [top, left, bottom, right] order.
func (in Insets) Array() [4]int {
	return [4]int{in.Top, in.Left, in.Bottom, in.Right}
}

func uniform(n int) Insets {
	return Insets{Top: n, Left: n, Bottom: n, Right: n}
}

// ComputeInsets returns the insets reserved by a border of the given style
// and width. It is a pure function of its arguments.
//
// A style of None reserves 2px on every side when the widget is alarm
// sensitive, even though no border is drawn for it in that case.
func ComputeInsets(style BorderStyle, width int, alarmSensitive bool) Insets {
	switch style {
	case BorderNone:
		if alarmSensitive {
			return uniform(2)
		}
		return Insets{}
	case BorderLine, BorderDot, BorderDash, BorderDashDot, BorderDashDotDot,
		BorderRoundRectangleBackground, BorderEmpty:
		return uniform(width)
	case BorderRaised, BorderLowered:
		return uniform(1)
	case BorderEtched, BorderRidged, BorderButtonRaised, BorderButtonPressed:
		return uniform(2)
	case BorderTitleBar:
		return Insets{Top: titleBarHeight + 1, Left: 1, Bottom: 1, Right: 1}
	case BorderGroupBox:
		return uniform(16)
	default:
		return Insets{}
	}
}
