package csbitvectors

// BuildOptions carries the optional, purely diagnostic configuration a
// Builder.Build call can accept across this module's packages. Today
// this is just a logger; the functional-options shape exists so adding
// another knob later does not break existing call sites.
type BuildOptions struct {
	Logger *Logger
}

// Option configures a Builder's Build behavior.
type Option func(*BuildOptions)

// WithLogger attaches a logger that Build will use to record its
// chosen parameters at Debug level (e.g. Elias-Fano's ell, RRR's
// super-block count). Pass nil to explicitly disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *BuildOptions) {
		o.Logger = logger
	}
}

// ApplyOptions folds a slice of Option into a BuildOptions, starting
// from a nil (no-op) logger.
func ApplyOptions(opts []Option) BuildOptions {
	o := BuildOptions{}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
