// Package session opens a display file into a live viewer wired to the
// local host collaborators. The CLI commands and the MCP server both drive
// displays through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mj1618/opi-cli/internal/config"
	"github.com/mj1618/opi-cli/internal/display"
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/loader"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/sirupsen/logrus"

	_ "github.com/mj1618/opi-cli/internal/widget/kinds"
)

var log = logrus.WithField("component", "session")

// Options configures Open.
type Options struct {
	Config config.Config
	Macros map[string]string
	// Source reads the display file and every resource it references.
	// Nil reads from the local filesystem.
	Source loader.Source
	// Seed, when non-zero, makes hit keys deterministic.
	Seed uint64
}

// Session is one open display.
type Session struct {
	File     string
	Provider *host.Provider
	Loader   *loader.Loader
	Viewer   *display.Viewer

	opts Options
}

// Open reads and loads file, then waits up to the configured load timeout
// for embedded displays and images. Resources still pending after that are
// left to later Pump or Settle calls.
func Open(ctx context.Context, file string, opts Options) (*Session, error) {
	if opts.Config == (config.Config{}) {
		opts.Config = config.Defaults()
	}
	if opts.Source == nil {
		opts.Source = loader.FileSource
	}
	l, err := loader.New(loader.Options{
		CacheSize: opts.Config.CacheSize,
		Timeout:   opts.Config.LoadTimeout,
		Source:    opts.Source,
	})
	if err != nil {
		return nil, err
	}
	s := &Session{
		File:     file,
		Provider: host.NewProvider(host.Options{AutoConfirm: opts.Config.AutoConfirm}),
		Loader:   l,
		opts:     opts,
	}
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.Viewer = v
	return s, nil
}

func (s *Session) load(ctx context.Context) (*display.Viewer, error) {
	rctx, cancel := context.WithTimeout(ctx, s.opts.Config.LoadTimeout)
	data, err := s.opts.Source(rctx, s.File)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("read display %s: %w", s.File, err)
	}
	root, err := document.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse display %s: %w", s.File, err)
	}

	var hopts []hit.Option
	if s.opts.Config.Tolerant {
		hopts = append(hopts, hit.WithExpander(hit.Neighborhood{}))
	}
	if s.opts.Seed != 0 {
		hopts = append(hopts, hit.WithSeed(s.opts.Seed))
	}
	wctx := s.Provider.Context(filepath.Dir(s.File), s.opts.Macros)
	wctx.Ancestors = []string{filepath.Clean(s.File)}
	v, err := display.NewViewer(root, wctx, s.Loader, hopts...)
	if err != nil {
		return nil, fmt.Errorf("load display %s: %w", s.File, err)
	}
	if err := s.settle(ctx, v); err != nil {
		v.Close()
		return nil, err
	}
	log.WithField("file", s.File).WithField("frames", v.Frames()).Debug("display opened")
	return v, nil
}

func (s *Session) settle(ctx context.Context, v *display.Viewer) error {
	sctx, cancel := context.WithTimeout(ctx, s.opts.Config.LoadTimeout)
	defer cancel()
	err := v.Settle(sctx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		log.WithField("file", s.File).Warn("resources still loading after timeout")
		return nil
	}
	return err
}

// Settle waits for pending loads, bounded by the load timeout.
func (s *Session) Settle(ctx context.Context) error {
	return s.settle(ctx, s.Viewer)
}

// Reload drops cached resources and loads the file again. PV values
// survive; on failure the current display stays open.
func (s *Session) Reload(ctx context.Context) error {
	s.Loader.Purge()
	v, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.Viewer.Close()
	s.Viewer = v
	return nil
}

// Snapshot describes the current display.
func (s *Session) Snapshot() []model.Element {
	return s.Viewer.Snapshot()
}

// Name returns the display name and its size.
func (s *Session) Name() (string, [2]int) {
	inst := s.Viewer.Instance()
	w, h := inst.Size()
	return inst.Name(), [2]int{w, h}
}

// Close disposes the display.
func (s *Session) Close() {
	if s.Viewer != nil {
		s.Viewer.Close()
	}
}
