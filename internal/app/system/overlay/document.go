// internal/app/system/overlay/document.go
package overlay

// Document is the host environment a Dialog activates against: a
// document-level listener registry, the body scroll style, and a
// detached top-level layer for overlays.
type Document interface {
	// Listen registers h for kind. The returned func removes it and is
	// safe to call more than once.
	Listen(kind EventKind, h Handler) (release func())
	BodyOverflow() string
	SetBodyOverflow(v string)
	OverlayLayer() *Layer
}

// Layer is a top-level render target that is not part of the page body,
// so nothing in the page can clip or reposition what is attached to it.
type Layer struct {
	root *Node
}

// NewLayer returns an empty layer.
func NewLayer() *Layer {
	return &Layer{root: El("div", "overlay-layer")}
}

// Root returns the layer's root node.
func (l *Layer) Root() *Node { return l.root }

// Attach appends n to the layer. The returned func detaches it.
func (l *Layer) Attach(n *Node) (detach func()) {
	l.root.Append(n)
	return func() {
		kids := l.root.Children[:0]
		for _, c := range l.root.Children {
			if c != n {
				kids = append(kids, c)
			}
		}
		l.root.Children = kids
		if n.parent == l.root {
			n.parent = nil
		}
	}
}

// Len returns the number of attached nodes.
func (l *Layer) Len() int { return len(l.root.Children) }

type registration struct {
	id uint64
	h  Handler
}

// MemoryDocument is an in-process Document. It is not safe for concurrent
// use; drive it from the single goroutine that owns the page.
type MemoryDocument struct {
	body      *Node
	layer     *Layer
	overflow  string
	nextID    uint64
	listeners map[EventKind][]registration
}

// NewDocument returns an empty document with a body and an overlay layer.
func NewDocument() *MemoryDocument {
	return &MemoryDocument{
		body:      El("body", ""),
		layer:     NewLayer(),
		listeners: make(map[EventKind][]registration),
	}
}

func (d *MemoryDocument) Listen(kind EventKind, h Handler) func() {
	d.nextID++
	id := d.nextID
	d.listeners[kind] = append(d.listeners[kind], registration{id: id, h: h})
	return func() { d.remove(kind, id) }
}

func (d *MemoryDocument) remove(kind EventKind, id uint64) {
	regs := d.listeners[kind]
	for i, r := range regs {
		if r.id == id {
			d.listeners[kind] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (d *MemoryDocument) registered(kind EventKind, id uint64) bool {
	for _, r := range d.listeners[kind] {
		if r.id == id {
			return true
		}
	}
	return false
}

// Dispatch delivers ev to the listeners registered for its kind when the
// dispatch starts. A listener removed by an earlier one is skipped.
func (d *MemoryDocument) Dispatch(ev Event) {
	snapshot := append([]registration(nil), d.listeners[ev.Kind()]...)
	for _, r := range snapshot {
		if !d.registered(ev.Kind(), r.id) {
			continue
		}
		r.h(ev)
	}
}

// ListenerCount returns how many listeners are registered for kind.
func (d *MemoryDocument) ListenerCount(kind EventKind) int {
	return len(d.listeners[kind])
}

func (d *MemoryDocument) BodyOverflow() string     { return d.overflow }
func (d *MemoryDocument) SetBodyOverflow(v string) { d.overflow = v }
func (d *MemoryDocument) OverlayLayer() *Layer     { return d.layer }

// Body returns the page root.
func (d *MemoryDocument) Body() *Node { return d.body }

// Lookup resolves a node id against the overlay layer first, then the
// body. Unknown ids resolve to the body, which is outside any overlay.
func (d *MemoryDocument) Lookup(id string) *Node {
	if n := d.layer.root.Find(id); n != nil {
		return n
	}
	if n := d.body.Find(id); n != nil {
		return n
	}
	return d.body
}
