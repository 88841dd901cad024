package session

import (
	"fmt"
	"image/png"
	"io"

	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
)

func regionInfo(r *hit.Region) *output.RegionInfo {
	if r == nil {
		return nil
	}
	return &output.RegionInfo{ID: r.ID, Cursor: r.Cursor}
}

// Probe reports the hit region and widget under the target without
// dispatching anything.
func (s *Session) Probe(t Target) (output.ProbeResult, error) {
	el, x, y, err := Resolve(s.Snapshot(), t)
	if err != nil {
		return output.ProbeResult{Action: "probe"}, err
	}
	return output.ProbeResult{
		OK:     true,
		Action: "probe",
		X:      x,
		Y:      y,
		Region: regionInfo(s.Viewer.Probe(x, y)),
		Target: output.Info(el),
	}, nil
}

// Hover moves the pointer onto the target.
func (s *Session) Hover(t Target) (output.ProbeResult, error) {
	el, x, y, err := Resolve(s.Snapshot(), t)
	if err != nil {
		return output.ProbeResult{Action: "hover"}, err
	}
	r := s.Viewer.Move(x, y)
	return output.ProbeResult{
		OK:     true,
		Action: "hover",
		X:      x,
		Y:      y,
		Region: regionInfo(r),
		Target: output.Info(el),
	}, nil
}

// Click runs a full click gesture on the target and reports the events the
// display fired in response.
func (s *Session) Click(t Target, button host.MouseButton) (output.ActionResult, error) {
	el, x, y, err := Resolve(s.Snapshot(), t)
	if err != nil {
		return output.ActionResult{Action: "click"}, err
	}
	since := s.Provider.Events.Last()
	r := s.Viewer.Click(x, y, int(button))
	if r == nil {
		log.WithField("x", x).WithField("y", y).Debug("click landed on no region")
	}
	return output.ActionResult{
		OK:     true,
		Action: "click",
		X:      x,
		Y:      y,
		Region: regionInfo(r),
		Target: output.Info(el),
		Events: s.Provider.Events.Since(since),
	}, nil
}

// Execute runs action index of the widget with the given wuid.
func (s *Session) Execute(wuid string, index int) (output.ActionResult, error) {
	res := output.ActionResult{Action: "action"}
	w := s.Viewer.Widget(wuid)
	if w == nil {
		return res, fmt.Errorf("no widget with wuid %q", wuid)
	}
	set := w.Core().Actions
	if index < 0 || set == nil || index >= set.Len() {
		return res, fmt.Errorf("widget %q has no action %d", wuid, index)
	}
	if set.At(index) == nil {
		return res, fmt.Errorf("widget %q action %d could not be built", wuid, index)
	}
	since := s.Provider.Events.Last()
	if err := s.Viewer.Execute(wuid, index); err != nil {
		return res, err
	}
	res.OK = true
	res.Target = output.Info(model.FindByWUID(s.Snapshot(), wuid))
	res.Events = s.Provider.Events.Since(since)
	return res, nil
}

// SetPV writes value to a local PV and repaints. Numeric text is stored as
// a number.
func (s *Session) SetPV(name, value string) error {
	if err := s.Provider.PV.SetValue(name, value); err != nil {
		return err
	}
	s.Viewer.Render()
	return nil
}

// Events returns the events fired after seq.
func (s *Session) Events(since int) []host.Event {
	return s.Provider.Events.Since(since)
}

// WritePNG encodes the current frame.
func (s *Session) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.Viewer.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
