package overlay

import "github.com/charmbracelet/log"

// Option configures an Overlay in New.
type Option func(*Overlay)

// WithLogger sets the logger. The overlay tags it with its id.
func WithLogger(l *log.Logger) Option {
	return func(o *Overlay) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOwnership hands the open flag to s instead of a private bool.
func WithOwnership(s StateOwnership) Option {
	return func(o *Overlay) {
		if s != nil {
			o.own = s
		}
	}
}

// WithAssertions makes logic errors such as double subscription panic
// instead of being logged. Enable it in development builds and tests.
func WithAssertions(on bool) Option {
	return func(o *Overlay) {
		o.assertions = on
	}
}

// WithID overrides the generated instance id.
func WithID(id string) Option {
	return func(o *Overlay) {
		if id != "" {
			o.id = id
		}
	}
}

// WithOnChange registers a hook that runs after every state or position
// change, typically to request a re-render.
func WithOnChange(fn func(State)) Option {
	return func(o *Overlay) {
		o.onChange = fn
	}
}

// WithOnWarning registers a hook for non-fatal conditions such as a
// position that is still pending after all measurement retries.
func WithOnWarning(fn func(error)) Option {
	return func(o *Overlay) {
		o.onWarning = fn
	}
}

// WithOnClosed registers a hook that runs once the panel is unmounted.
func WithOnClosed(fn func()) Option {
	return func(o *Overlay) {
		o.onClosed = fn
	}
}
