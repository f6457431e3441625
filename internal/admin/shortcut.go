package admin

import (
	"context"
	"strings"
)

// KeyEvent is a keyboard shortcut as reported by the editor.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

// ResolveShortcut maps Ctrl/Cmd+S to Save, Ctrl/Cmd+N to NewProduct and
// Escape to CancelEdit, the latter only while editing.
func ResolveShortcut(ev KeyEvent, editing bool) (Command, bool) {
	modifier := ev.Ctrl || ev.Meta
	switch {
	case modifier && strings.EqualFold(ev.Key, "s"):
		return Save{}, true
	case modifier && strings.EqualFold(ev.Key, "n"):
		return NewProduct{}, true
	case ev.Key == "Escape" && editing:
		return CancelEdit{}, true
	default:
		return nil, false
	}
}

// Shortcut resolves ev against the current editor state and runs the
// command it maps to. ok is false when ev is not a shortcut.
func (s *Session) Shortcut(ctx context.Context, ev KeyEvent) (res Result, ok bool, err error) {
	cmd, ok := ResolveShortcut(ev, s.Editing())
	if !ok {
		return Result{}, false, nil
	}
	res, err = s.Dispatch(ctx, cmd)
	return res, true, err
}
