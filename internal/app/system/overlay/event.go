// internal/app/system/overlay/event.go
package overlay

// EventKind names a document-level input event.
type EventKind string

const (
	KeyDown     EventKind = "keydown"
	PointerDown EventKind = "pointerdown"
)

// Event is anything a Document can dispatch to listeners.
type Event interface {
	Kind() EventKind
}

// KeyEvent is a key press. Ctrl and Meta are the two platform modifiers.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool

	defaultPrevented bool
}

func (e *KeyEvent) Kind() EventKind { return KeyDown }

// PreventDefault marks the event so the host skips its default action.
func (e *KeyEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *KeyEvent) DefaultPrevented() bool { return e.defaultPrevented }

// PointerEvent is a pointer press on Target. A nil Target is outside
// every rendered node.
type PointerEvent struct {
	Target *Node
}

func (e *PointerEvent) Kind() EventKind { return PointerDown }

// Handler receives dispatched events.
type Handler func(Event)
