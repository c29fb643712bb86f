package roulette

import "time"

// Default animation tunables.
const (
	DefaultInterval    = 150 * time.Millisecond
	DefaultDecelSteps  = 6
	DefaultDecelFactor = 1.15
	DefaultMaxInterval = 2200 * time.Millisecond
)

// Options tune a single animation run.
type Options struct {
	// Interval is the initial tick period.
	Interval time.Duration
	// AutoStop, when positive, requests a stop this long after the run starts.
	// Zero means the run circles until RequestStop is called.
	AutoStop time.Duration
	// DecelSteps is the number of slowed ticks after a stop request before the
	// run may land. Zero lands at the next pass over the target.
	DecelSteps int
	// DecelFactor multiplies the tick interval on every decelerating tick.
	DecelFactor float64
	// MaxInterval caps the tick interval.
	MaxInterval time.Duration
}

// DefaultOptions returns the standard tunables with no auto-stop.
func DefaultOptions() Options {
	return Options{
		Interval:    DefaultInterval,
		DecelSteps:  DefaultDecelSteps,
		DecelFactor: DefaultDecelFactor,
		MaxInterval: DefaultMaxInterval,
	}
}

// WithAutoStop returns a copy of o that stops itself after d.
func (o Options) WithAutoStop(d time.Duration) Options {
	o.AutoStop = d
	return o
}

// normalized replaces unusable values with defaults.
func (o Options) normalized() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.DecelSteps < 0 {
		o.DecelSteps = 0
	}
	if o.DecelFactor < 1 {
		o.DecelFactor = DefaultDecelFactor
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = DefaultMaxInterval
	}
	if o.MaxInterval < o.Interval {
		o.MaxInterval = o.Interval
	}
	if o.AutoStop < 0 {
		o.AutoStop = 0
	}
	return o
}

// grow applies one deceleration step to interval.
func (o Options) grow(interval time.Duration) time.Duration {
	next := time.Duration(float64(interval) * o.DecelFactor)
	if next > o.MaxInterval {
		return o.MaxInterval
	}
	return next
}
