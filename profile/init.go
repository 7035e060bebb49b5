package profile

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Start begins profiling as described by c and returns a [Stopper] that ends
// it. Start returns a no-op when c.Mode is empty, when the mode is unknown,
// or when built without the pprof tag. The result is always safe to stop.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
