package harness

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout is the wait applied when a PollSpec leaves Timeout unset.
const DefaultTimeout = 10 * time.Second

// DefaultInterval is the poll interval applied when a PollSpec leaves Interval unset.
const DefaultInterval = 200 * time.Millisecond

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = errors.New("timed out")

type outcome int

const (
	outcomeNotYet outcome = iota
	outcomeSuccess
	outcomeFailure
)

// Result is what a probe reports for one check: Done, Pending or Fail.
type Result[T any] struct {
	value   T
	err     error
	outcome outcome
	note    string
}

// Done reports that the awaited condition holds.
func Done[T any](v T) Result[T] {
	return Result[T]{value: v, outcome: outcomeSuccess}
}

// Pending reports that the condition does not hold yet. The note describes
// what was observed and ends up in the timeout error.
func Pending[T any](note string) Result[T] {
	return Result[T]{outcome: outcomeNotYet, note: note}
}

// Fail reports an error. It ends the poll unless SwallowErrors is set.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err, outcome: outcomeFailure}
}

// Probe checks the awaited condition once.
type Probe[T any] func() Result[T]

// Clock abstracts time for the poll loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// PollSpec configures one wait. It is consumed by a single Poll call.
type PollSpec struct {
	Timeout  time.Duration
	Interval time.Duration
	// SwallowErrors treats Fail like Pending.
	SwallowErrors bool
	// What names the awaited condition in errors and logs.
	What  string
	Clock Clock
}

// MinAttempts is the number of probe calls a poll always makes before it can
// time out: ceil(timeout/interval) + 1.
func (s PollSpec) MinAttempts() int {
	s = s.withDefaults()
	n := int(s.Timeout / s.Interval)
	if s.Timeout%s.Interval != 0 {
		n++
	}
	return n + 1
}

func (s PollSpec) withDefaults() PollSpec {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}
	if s.Clock == nil {
		s.Clock = realClock{}
	}
	return s
}

// TimeoutError is returned when a poll runs out of time. It carries the last
// observed state.
type TimeoutError struct {
	What     string
	Timeout  time.Duration
	Attempts int
	LastErr  error
	LastNote string
}

func (e *TimeoutError) Error() string {
	what := e.What
	if what == "" {
		what = "condition"
	}
	msg := fmt.Sprintf("%s not met after %s (%d attempts)", what, e.Timeout, e.Attempts)
	switch {
	case e.LastErr != nil:
		msg += fmt.Sprintf(": last error: %v", e.LastErr)
	case e.LastNote != "":
		msg += ": last state: " + e.LastNote
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// Poll calls probe on the calling goroutine until it reports Done, until it
// reports Fail (unless errors are swallowed), or until the timeout elapses.
// Probes never run in parallel.
func Poll[T any](spec PollSpec, probe Probe[T]) (T, error) {
	spec = spec.withDefaults()
	minAttempts := spec.MinAttempts()
	start := spec.Clock.Now()

	var (
		zero     T
		lastErr  error
		lastNote string
	)
	for attempt := 1; ; attempt++ {
		r := probe()
		switch r.outcome {
		case outcomeSuccess:
			return r.value, nil
		case outcomeFailure:
			if !spec.SwallowErrors {
				if spec.What != "" {
					return zero, fmt.Errorf("%s: %w", spec.What, r.err)
				}
				return zero, r.err
			}
			lastErr, lastNote = r.err, ""
		default:
			lastErr, lastNote = nil, r.note
		}

		if attempt >= minAttempts && spec.Clock.Now().Sub(start) >= spec.Timeout {
			return zero, &TimeoutError{
				What:     spec.What,
				Timeout:  spec.Timeout,
				Attempts: attempt,
				LastErr:  lastErr,
				LastNote: lastNote,
			}
		}
		spec.Clock.Sleep(spec.Interval)
	}
}
