package module

import (
	"errors"

	"github.com/onflow/flow-narwhal/module/irrecoverable"
)

// ErrMultipleStartup is returned when Start is called on a component twice.
var ErrMultipleStartup = errors.New("component may only be started once")

// ReadyDoneAware provides easy interface to wait for module startup and shutdown.
// Modules that implement this interface only support a single start-stop cycle,
// and will not restart if Ready() is called again after shutdown has already commenced.
type ReadyDoneAware interface {
	// Ready returns a ready channel that is closed once startup has completed.
	// This is an idempotent method.
	Ready() <-chan struct{}

	// Done returns a done channel that is closed once shutdown has completed.
	// This is an idempotent method.
	Done() <-chan struct{}
}

// Startable provides an interface to start a component. Once started, the component
// can be stopped by cancelling the given context.
type Startable interface {
	// Start starts the component. Any irrecoverable errors encountered while the component is running
	// should be thrown with the given SignalerContext.
	// This method should only be called once, and subsequent calls should panic with ErrMultipleStartup.
	Start(irrecoverable.SignalerContext)
}
