package audioprobe

import (
	"log/slog"
	"sync"
	"time"

	"github.com/simonhull/audioprobe/internal/probe"
)

// Option configures an extraction.
//
// Example:
//
//	rec := audioprobe.Extract("track.wav", data, size,
//	    audioprobe.WithProbeTimeout(5*time.Second),
//	    audioprobe.WithLogger(logger),
//	)
type Option func(*extractOptions)

// extractOptions holds configuration for one extraction.
type extractOptions struct {
	prober         probe.Prober
	proberSet      bool
	probeTimeout   time.Duration // 0 = no limit
	logger         *slog.Logger
	ignoreWarnings bool
}

// defaultProber is ffprobe from PATH, resolved once.
var defaultProber = sync.OnceValue(func() probe.Prober {
	p, err := probe.LookFFprobe("")
	if err != nil {
		return nil
	}
	return p
})

func newOptions(opts []Option) *extractOptions {
	o := &extractOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if !o.proberSet {
		o.prober = defaultProber()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithProber sets the prober used for extensions without a built-in parser.
//
// By default ffprobe is used when it can be found on PATH. Passing nil
// disables probing: such files keep their default properties and get a
// "probe" warning.
func WithProber(p Prober) Option {
	return func(o *extractOptions) {
		o.prober = p
		o.proberSet = true
	}
}

// WithProbeTimeout bounds each prober call. Zero means no limit.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *extractOptions) {
		o.probeTimeout = d
	}
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *extractOptions) {
		o.logger = logger
	}
}

// WithIgnoreWarnings drops Record.Warnings from the result.
func WithIgnoreWarnings() Option {
	return func(o *extractOptions) {
		o.ignoreWarnings = true
	}
}
