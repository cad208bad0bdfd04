package renderthread

import (
	"weak"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// Host is the view a render thread draws for. The thread never keeps a
// strong reference to its Host.
type Host interface {
	// Renderer returns the attached renderer, or nil if none is attached.
	Renderer() graphics.Renderer

	// Collaborators returns the strategies the graphics session calls into.
	Collaborators() graphics.Collaborators

	// PreserveContextOnPause reports whether the context survives a pause.
	PreserveContextOnPause() bool
}

// HostRef resolves the Host. It reports false once the Host has been reclaimed.
type HostRef func() (Host, bool)

// WeakHost returns a HostRef that holds h weakly.
//
// Parameters:
//   - h: pointer to the host; the returned HostRef does not keep it alive
//
// Returns:
//   - HostRef: resolves to h until h is garbage collected
func WeakHost[T any, P interface {
	*T
	Host
}](h P) HostRef {
	wp := weak.Make((*T)(h))
	return func() (Host, bool) {
		p := wp.Value()
		if p == nil {
			return nil, false
		}
		return P(p), true
	}
}

// StrongHost returns a HostRef that always resolves to h.
func StrongHost(h Host) HostRef {
	return func() (Host, bool) { return h, h != nil }
}
