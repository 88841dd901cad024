package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/session"
	"gopkg.in/yaml.v3"
)

// toText serializes a result to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

// writeHandler wraps a tool that changes display state: it locks the
// sessions, runs fn and invalidates the cached snapshot.
func (s *Server) writeHandler(
	ctx context.Context,
	request mcp.CallToolRequest,
	fn func(*session.Session, map[string]interface{}) (interface{}, error),
) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, key, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := fn(sess, params)
	s.cache.Invalidate(key)
	if err != nil {
		if result == nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(toText(result) + "error: " + err.Error()), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) snapshot(sess *session.Session, key string) []model.Element {
	return s.cache.Snapshot(key, sess.Viewer.Frames(), sess.Snapshot)
}

func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := session.StringParam(request.GetArguments(), "file", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := filepath.Abs(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	existed := s.sessions.Contains(abs)
	sess, key, err := s.session(ctx, file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// An already open display is read again from disk.
	if existed {
		if err := sess.Reload(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	s.cache.Invalidate(key)
	name, size := sess.Name()
	return mcp.NewToolResultText(toText(output.TreeResult{
		File:     key,
		Display:  name,
		Size:     size,
		TS:       time.Now().Unix(),
		Elements: s.snapshot(sess, key),
	})), nil
}

func (s *Server) handleTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, key, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	elements := FilterTree(s.snapshot(sess, key),
		session.StringParam(params, "roles", ""),
		session.StringParam(params, "text", ""),
		session.BoolParam(params, "visible-only", false))

	name, size := sess.Name()
	ts := time.Now().Unix()
	if session.BoolParam(params, "flat", false) {
		return mcp.NewToolResultText(toText(output.TreeFlatResult{
			File: key, Display: name, Size: size, TS: ts,
			Elements: model.FlattenElements(elements),
		})), nil
	}
	return mcp.NewToolResultText(toText(output.TreeResult{
		File: key, Display: name, Size: size, TS: ts,
		Elements: elements,
	})), nil
}

// FilterTree applies the tree filters shared by the CLI and the server.
func FilterTree(elements []model.Element, roles, text string, visibleOnly bool) []model.Element {
	if visibleOnly {
		elements = model.PruneHidden(elements)
	}
	elements = model.FilterElements(elements, session.SplitRoles(roles), nil)
	return model.FilterByText(elements, text)
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, key, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	switch {
	case session.BoolParam(params, "hit", false):
		err = png.Encode(&buf, sess.Viewer.Hit().Image())
	case session.BoolParam(params, "annotate", false):
		err = png.Encode(&buf, session.Annotate(sess.Viewer.Image(), s.snapshot(sess, key), session.LabelWUIDs, false))
	default:
		err = sess.WritePNG(&buf)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleProbe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := sess.Probe(session.TargetParams(params))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeHandler(ctx, request, func(sess *session.Session, params map[string]interface{}) (interface{}, error) {
		r, err := sess.Hover(session.TargetParams(params))
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

func (s *Server) handleClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeHandler(ctx, request, func(sess *session.Session, params map[string]interface{}) (interface{}, error) {
		button, err := host.ParseMouseButton(session.StringParam(params, "button", "left"))
		if err != nil {
			return nil, err
		}
		r, err := sess.Click(session.TargetParams(params), button)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

func (s *Server) handleAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeHandler(ctx, request, func(sess *session.Session, params map[string]interface{}) (interface{}, error) {
		r, err := sess.Execute(session.StringParam(params, "wuid", ""), session.IntParam(params, "index", 0))
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

func (s *Server) handleSetPV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeHandler(ctx, request, func(sess *session.Session, params map[string]interface{}) (interface{}, error) {
		name := session.StringParam(params, "name", "")
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		if err := sess.SetPV(name, session.StringParam(params, "value", "")); err != nil {
			return nil, err
		}
		v, _ := sess.Provider.PV.Get(name)
		return map[string]interface{}{"ok": true, "action": "set_pv", "name": name, "value": v}, nil
	})
}

func (s *Server) handleEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(map[string]interface{}{
		"ok":     true,
		"action": "events",
		"last":   sess.Provider.Events.Last(),
		"events": sess.Events(session.IntParam(params, "since", 0)),
	})), nil
}

func (s *Server) handleDo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	stopOnError := session.BoolParam(params, "stop-on-error", true)

	arr, ok := params["steps"].([]interface{})
	if !ok {
		return mcp.NewToolResultError("steps must be an array"), nil
	}
	steps := make([]session.Step, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("each step must be an object"), nil
		}
		step := make(session.Step, len(m))
		for name, raw := range m {
			p, _ := raw.(map[string]interface{})
			if p == nil {
				p = map[string]interface{}{}
			}
			step[name] = p
		}
		steps = append(steps, step)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, key, err := s.session(ctx, session.StringParam(params, "file", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := sess.Run(ctx, steps, stopOnError)
	s.cache.Invalidate(key)
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}
