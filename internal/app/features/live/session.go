// internal/app/features/live/session.go
package live

import (
	"github.com/dalemusser/pagepulse/internal/app/system/overlay"
)

// Message types sent by the page.
const (
	MsgReady       = "ready"
	MsgOpen        = "open"
	MsgClose       = "close"
	MsgKeyDown     = "keydown"
	MsgPointerDown = "pointerdown"
)

// Inbound is one message from the page.
type Inbound struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Ctrl   bool   `json:"ctrl,omitempty"`
	Meta   bool   `json:"meta,omitempty"`
	Target string `json:"target,omitempty"`
}

// Frame is the state the page applies after each message. The page only
// repaints the overlay when Changed is set, so typed input and focus inside
// the dialog survive frames that leave it as it was.
type Frame struct {
	Type           string `json:"type"`
	Overlay        string `json:"overlay"`
	Changed        bool   `json:"changed"`
	BodyOverflow   string `json:"bodyOverflow"`
	PreventDefault bool   `json:"preventDefault"`
}

// Session is the server-side half of one dashboard page. It owns the
// dialog's visibility state and a MemoryDocument standing in for the
// page's document. Not safe for concurrent use: one connection goroutine
// drives it.
type Session struct {
	doc      *overlay.MemoryDocument
	dlg      *overlay.Dialog
	children []*overlay.Node
	shortcut string
	surface  string

	visible bool
	dirty   bool
	painted string // overlay HTML of the last frame
}

// SessionConfig describes the dialog a session hosts.
type SessionConfig struct {
	Children         []*overlay.Node
	OpenShortcutKey  string
	SurfaceClassName string
}

// NewSession builds the dialog without activating it. Activation waits
// for the page's ready message.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		doc:      overlay.NewDocument(),
		children: cfg.Children,
		shortcut: cfg.OpenShortcutKey,
		surface:  cfg.SurfaceClassName,
	}
	s.dlg = overlay.New(s.props())
	return s
}

func (s *Session) props() overlay.Props {
	return overlay.Props{
		Visible:          s.visible,
		SetVisible:       s.setVisible,
		Children:         s.children,
		OpenShortcutKey:  s.shortcut,
		SurfaceClassName: s.surface,
	}
}

func (s *Session) setVisible(v bool) {
	if s.visible == v {
		return
	}
	s.visible = v
	s.dirty = true
}

// Handle applies one message and returns the frame to send back.
// Unknown message types change nothing.
func (s *Session) Handle(in Inbound) Frame {
	var prevented bool

	switch in.Type {
	case MsgReady:
		s.dlg.Activate(s.doc)
	case MsgOpen:
		s.setVisible(true)
	case MsgClose:
		s.setVisible(false)
	case MsgKeyDown:
		ev := &overlay.KeyEvent{Key: in.Key, Ctrl: in.Ctrl, Meta: in.Meta}
		s.doc.Dispatch(ev)
		prevented = ev.DefaultPrevented()
	case MsgPointerDown:
		s.doc.Dispatch(&overlay.PointerEvent{Target: s.doc.Lookup(in.Target)})
	}

	if s.dirty {
		s.dirty = false
		s.dlg.Update(s.props())
	}
	return s.frame(prevented)
}

func (s *Session) frame(prevented bool) Frame {
	f := Frame{
		Type:           "render",
		BodyOverflow:   s.doc.BodyOverflow(),
		PreventDefault: prevented,
	}
	if root := s.dlg.Render(); root != nil {
		f.Overlay = root.HTML()
	}
	f.Changed = f.Overlay != s.painted
	s.painted = f.Overlay
	return f
}

// Rendered returns the overlay root while the dialog is shown.
func (s *Session) Rendered() *overlay.Node { return s.dlg.Render() }

// Visible reports the caller-owned visibility state.
func (s *Session) Visible() bool { return s.visible }

// Close removes the dialog, releasing listeners and the scroll lock.
func (s *Session) Close() { s.dlg.Remove() }

// Document exposes the session's document.
func (s *Session) Document() *overlay.MemoryDocument { return s.doc }
