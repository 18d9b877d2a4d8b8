package profile

// Tag is the build tag that enables profiling and the kong flag prefix used
// for profiling options.
const Tag = "pprof"

// Profiler describes a profiling session.
type Profiler struct {
	// Mode names the profile kind; see [Modes].
	Mode string
	// Path is the output directory.
	Path string
	// Quiet suppresses the profiler's own start/stop messages.
	Quiet bool
}

// Start begins profiling and returns a handle to stop it. An empty or
// unsupported mode returns a no-op handle. Both Start and Stop are always
// safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
