package module

// Notifier informs a worker routine that new work has arrived. It behaves
// like a channel in that it can be passed by value and still share its
// state.
//
// Any number of Notify calls made while the worker is busy collapse into a
// single pending notification. The worker therefore has to drain all work
// available each time it is woken up.
type Notifier struct {
	notifier chan struct{} // buffered channel with capacity 1
}

// NewNotifier instantiates a Notifier.
func NewNotifier() Notifier {
	return Notifier{make(chan struct{}, 1)}
}

// Notify sends a notification without ever blocking.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns a channel for receiving notifications
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
