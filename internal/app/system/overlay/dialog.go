// internal/app/system/overlay/dialog.go
package overlay

// Class lists for the three overlay layers. The stacking values keep the
// overlay above every page element; app.css defines them.
const (
	rootClasses     = "overlay fixed inset-0 flex items-center justify-center z-[999]"
	backdropClasses = "overlay-backdrop absolute inset-0 z-[-1]"
	surfaceClasses  = "overlay-surface relative w-full max-w-xl mx-4 z-[1000]"

	// EnterAnimation is the data-enter value the stylesheet animates from
	// scale .95 and opacity 0 to full size and opacity.
	EnterAnimation = "scale-in"

	// ScrollLocked is the body overflow value held while visible.
	ScrollLocked = "hidden"
)

// Props configure a Dialog. Visibility is owned by the caller: the dialog
// reads Visible and asks for changes through SetVisible, nothing more.
type Props struct {
	Visible    bool
	SetVisible func(bool)
	Children   []*Node

	// OpenShortcutKey, when set, opens the dialog on Ctrl/Meta + key.
	// The comparison is case-sensitive.
	OpenShortcutKey  string
	SurfaceClassName string
}

// Dialog is a modal overlay rendered into the document's overlay layer.
//
// Lifecycle: New describes it without touching any host; Activate binds it
// to a Document and opens the readiness gate; Update re-evaluates after a
// props change; Remove tears it down. Every re-evaluation releases all
// listeners, the layer attachment and the scroll lock before acquiring
// them again, and Remove releases them unconditionally.
type Dialog struct {
	props   Props
	doc     Document
	mounted bool
	removed bool

	root    *Node
	surface *Node
	held    []func()
}

// New returns an inactive dialog. It renders nothing until Activate.
func New(p Props) *Dialog {
	return &Dialog{props: p}
}

// Activate binds the dialog to doc. Only the first call has any effect.
func (d *Dialog) Activate(doc Document) {
	if d.mounted || d.removed {
		return
	}
	d.doc = doc
	d.mounted = true
	d.sync()
}

// Update replaces the props and re-evaluates.
func (d *Dialog) Update(p Props) {
	d.props = p
	if d.mounted && !d.removed {
		d.sync()
	}
}

// Remove releases everything the dialog holds. The dialog is inert afterwards.
func (d *Dialog) Remove() {
	d.release()
	d.removed = true
	d.doc = nil
}

// Mounted reports whether the readiness gate is open.
func (d *Dialog) Mounted() bool { return d.mounted }

// Render returns the overlay root, or nil unless the dialog is both
// mounted and visible.
func (d *Dialog) Render() *Node {
	if !d.mounted || d.removed || !d.props.Visible {
		return nil
	}
	return d.root
}

// Surface returns the content surface while rendered.
func (d *Dialog) Surface() *Node {
	if d.Render() == nil {
		return nil
	}
	return d.surface
}

func (d *Dialog) sync() {
	d.release()

	p := d.props
	doc := d.doc

	d.hold(doc.Listen(KeyDown, keyHandler(p)))

	if !p.Visible {
		return
	}

	d.root, d.surface = build(p)
	d.hold(doc.OverlayLayer().Attach(d.root))

	surface := d.surface
	d.hold(doc.Listen(PointerDown, func(ev Event) {
		pe, ok := ev.(*PointerEvent)
		if !ok {
			return
		}
		if !surface.Contains(pe.Target) {
			p.SetVisible(false)
		}
	}))

	prev := doc.BodyOverflow()
	doc.SetBodyOverflow(ScrollLocked)
	d.hold(func() { doc.SetBodyOverflow(prev) })
}

func keyHandler(p Props) Handler {
	return func(ev Event) {
		ke, ok := ev.(*KeyEvent)
		if !ok {
			return
		}
		if p.OpenShortcutKey != "" && (ke.Ctrl || ke.Meta) && ke.Key == p.OpenShortcutKey {
			ke.PreventDefault()
			p.SetVisible(true)
		}
		if ke.Key == "Escape" {
			p.SetVisible(false)
		}
	}
}

func (d *Dialog) hold(release func()) {
	d.held = append(d.held, release)
}

// release runs held releases in reverse acquisition order.
func (d *Dialog) release() {
	held := d.held
	d.held = nil
	for i := len(held) - 1; i >= 0; i-- {
		held[i]()
	}
	d.root, d.surface = nil, nil
}

func build(p Props) (root, surface *Node) {
	backdrop := El("div", backdropClasses).SetAttr("aria-hidden", "true")

	surface = El("div", "", p.Children...)
	surface.Classes = mergeClasses(surfaceClasses, p.SurfaceClassName)
	surface.SetAttr("role", "dialog").
		SetAttr("aria-modal", "true").
		SetAttr("data-enter", EnterAnimation)

	root = El("div", rootClasses, backdrop, surface)
	return root, surface
}

// Backdrop returns the backdrop node of a rendered overlay root.
func Backdrop(root *Node) *Node {
	if root == nil {
		return nil
	}
	for _, c := range root.Children {
		if c.HasClass("overlay-backdrop") {
			return c
		}
	}
	return nil
}
