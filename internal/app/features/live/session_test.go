package live_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/pagepulse/internal/app/features/live"
	"github.com/dalemusser/pagepulse/internal/app/system/overlay"
)

func newSession() *live.Session {
	body := overlay.El("p", "")
	body.Text = "Create a project"
	return live.NewSession(live.SessionConfig{
		Children:        []*overlay.Node{body},
		OpenShortcutKey: "k",
	})
}

func TestSession_NothingBeforeReady(t *testing.T) {
	s := newSession()

	f := s.Handle(live.Inbound{Type: live.MsgOpen})
	if f.Overlay != "" {
		t.Errorf("overlay before ready: got %q, want empty", f.Overlay)
	}
	if f.BodyOverflow != "" {
		t.Errorf("bodyOverflow before ready: got %q, want empty", f.BodyOverflow)
	}
	if !s.Visible() {
		t.Error("visibility state should still be recorded")
	}

	f = s.Handle(live.Inbound{Type: live.MsgReady})
	if f.Overlay == "" {
		t.Error("overlay after ready: got empty, want rendered dialog")
	}
}

func TestSession_ShortcutOpensAndBackdropCloses(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})

	f := s.Handle(live.Inbound{Type: live.MsgKeyDown, Key: "k", Ctrl: true})
	if !f.PreventDefault {
		t.Error("preventDefault: got false, want true")
	}
	if !strings.Contains(f.Overlay, `data-enter="scale-in"`) {
		t.Errorf("overlay: missing enter animation in %q", f.Overlay)
	}
	if !strings.Contains(f.Overlay, "Create a project") {
		t.Errorf("overlay: missing children in %q", f.Overlay)
	}
	if f.BodyOverflow != overlay.ScrollLocked {
		t.Errorf("bodyOverflow: got %q, want %q", f.BodyOverflow, overlay.ScrollLocked)
	}

	backdrop := overlay.Backdrop(s.Rendered())
	if backdrop == nil {
		t.Fatal("no backdrop rendered")
	}
	f = s.Handle(live.Inbound{Type: live.MsgPointerDown, Target: backdrop.ID})
	if f.Overlay != "" {
		t.Errorf("overlay after backdrop click: got %q, want empty", f.Overlay)
	}
	if f.BodyOverflow != "" {
		t.Errorf("bodyOverflow after close: got %q, want restored empty", f.BodyOverflow)
	}
	if s.Visible() {
		t.Error("Visible: got true, want false")
	}
}

func TestSession_PointerInsideKeepsOpen(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})
	s.Handle(live.Inbound{Type: live.MsgOpen})

	root := s.Rendered()
	if root == nil || len(root.Children) < 2 || len(root.Children[1].Children) == 0 {
		t.Fatal("unexpected overlay structure")
	}
	inside := root.Children[1].Children[0]

	f := s.Handle(live.Inbound{Type: live.MsgPointerDown, Target: inside.ID})
	if f.Overlay == "" {
		t.Error("pointer inside closed the dialog")
	}
	if f.Changed {
		t.Error("pointer inside marked the overlay changed; the page would repaint the form")
	}
}

func TestSession_ChangedOnlyOnTransitions(t *testing.T) {
	s := newSession()

	steps := []struct {
		in      live.Inbound
		changed bool
	}{
		{live.Inbound{Type: live.MsgReady}, false},
		{live.Inbound{Type: live.MsgOpen}, true},
		{live.Inbound{Type: live.MsgOpen}, false},
		{live.Inbound{Type: live.MsgKeyDown, Key: "k", Ctrl: true}, false},
		{live.Inbound{Type: live.MsgKeyDown, Key: "Escape"}, true},
		{live.Inbound{Type: live.MsgKeyDown, Key: "Escape"}, false},
		{live.Inbound{Type: live.MsgKeyDown, Key: "k", Ctrl: true}, true},
	}
	for i, st := range steps {
		f := s.Handle(st.in)
		if f.Changed != st.changed {
			t.Errorf("step %d (%s %s): Changed = %v, want %v", i, st.in.Type, st.in.Key, f.Changed, st.changed)
		}
	}
}

func TestSession_UnknownTargetIsOutside(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})
	s.Handle(live.Inbound{Type: live.MsgOpen})

	f := s.Handle(live.Inbound{Type: live.MsgPointerDown, Target: "page-button"})
	if f.Overlay != "" {
		t.Error("pointer on page body should close the dialog")
	}
}

func TestSession_EscapeCloses(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})
	s.Handle(live.Inbound{Type: live.MsgOpen})

	f := s.Handle(live.Inbound{Type: live.MsgKeyDown, Key: "Escape"})
	if f.Overlay != "" || s.Visible() {
		t.Error("Escape did not close the dialog")
	}
	if f.PreventDefault {
		t.Error("Escape should not prevent default")
	}
}

func TestSession_PlainKeyDoesNothing(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})

	f := s.Handle(live.Inbound{Type: live.MsgKeyDown, Key: "k"})
	if f.Overlay != "" || f.PreventDefault {
		t.Errorf("plain k: got %+v, want no change", f)
	}
}

func TestSession_CloseReleasesEverything(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})
	s.Handle(live.Inbound{Type: live.MsgOpen})

	doc := s.Document()
	if doc.ListenerCount(overlay.PointerDown) != 1 || doc.ListenerCount(overlay.KeyDown) != 1 {
		t.Fatalf("listeners while open: keydown=%d pointerdown=%d",
			doc.ListenerCount(overlay.KeyDown), doc.ListenerCount(overlay.PointerDown))
	}

	s.Close()

	if n := doc.ListenerCount(overlay.KeyDown) + doc.ListenerCount(overlay.PointerDown); n != 0 {
		t.Errorf("listeners after Close: got %d, want 0", n)
	}
	if doc.BodyOverflow() != "" {
		t.Errorf("bodyOverflow after Close: got %q, want empty", doc.BodyOverflow())
	}
	if doc.OverlayLayer().Len() != 0 {
		t.Errorf("layer after Close: got %d nodes, want 0", doc.OverlayLayer().Len())
	}
}

func TestSession_UnknownMessageIgnored(t *testing.T) {
	s := newSession()
	s.Handle(live.Inbound{Type: live.MsgReady})

	f := s.Handle(live.Inbound{Type: "resize"})
	if f.Type != "render" || f.Overlay != "" {
		t.Errorf("unknown message: got %+v", f)
	}
}
