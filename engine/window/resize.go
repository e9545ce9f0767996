package window

import "sync"

// ResizeSubscription identifies a registered resize listener. The zero value never refers to a listener.
type ResizeSubscription uint64

type resizeListener struct {
	id ResizeSubscription
	fn func(width, height int)
}

// resizeHub fans framebuffer size changes out to subscribers in subscription order.
type resizeHub struct {
	mu        sync.Mutex
	next      ResizeSubscription
	listeners []resizeListener
}

// subscribe registers fn and returns its handle. A nil fn is not registered and yields the zero handle.
func (h *resizeHub) subscribe(fn func(width, height int)) ResizeSubscription {
	if fn == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.listeners = append(h.listeners, resizeListener{id: h.next, fn: fn})
	return h.next
}

// unsubscribe removes the listener and reports whether it was registered.
func (h *resizeHub) unsubscribe(id ResizeSubscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.listeners {
		if l.id == id {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// len returns the number of registered listeners.
func (h *resizeHub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// notify calls every listener with the new size. Sizes with a zero dimension (minimized windows) are dropped.
// Listeners run outside the lock so they may unsubscribe themselves.
func (h *resizeHub) notify(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.mu.Lock()
	listeners := make([]resizeListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(width, height)
	}
}
