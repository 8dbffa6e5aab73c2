package promise

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// EventsReceiver is the diagnostic sink for the package: every warning,
// exception, and illegal-transition the state machine detects is reported
// here, never by returning an error or panicking out of the call that
// detected it. The library never branches on a receiver's return value —
// these are purely observational hooks.
type EventsReceiver interface {
	// OnVerbose reports low-priority diagnostic chatter.
	OnVerbose(msg string)
	// OnWarning reports a recoverable anomaly worth a human's attention,
	// such as a chain parent being reassigned.
	OnWarning(msg string)
	// OnWarningMinor reports a recoverable anomaly that's usually benign,
	// such as a refused self-parenting/cycle attempt.
	OnWarningMinor(msg string)
	// OnException reports that a user callback (resolve/reject/progress
	// handler, or a producer's Reject) threw or supplied an error.
	OnException(err error)
	// OnStateException reports that a producer attempted an illegal
	// state transition (e.g. Resolve on an already-settled promise).
	OnStateException(err error)
}

// receiver is the process-wide diagnostic sink. Configure it at program
// start with [SetEventsReceiver]; the zero value is [NoopEventsReceiver].
var receiver atomic.Pointer[EventsReceiver]

// EnablePromiseTracking governs whether Pending promises are added to (and
// removed from) the pending registry used by [PendingPromises] to find
// leaked/unsettled promises. Off by default since it has a bookkeeping
// cost; intended to be set once at program start, not toggled at runtime.
var EnablePromiseTracking bool

// SetEventsReceiver installs the process-wide diagnostic sink. Passing nil
// restores the no-op receiver. Intended to be called once at program
// start, not concurrently with promise activity.
func SetEventsReceiver(r EventsReceiver) {
	if r == nil {
		r = NoopEventsReceiver{}
	}
	receiver.Store(&r)
}

func sink() EventsReceiver {
	if p := receiver.Load(); p != nil {
		return *p
	}
	return NoopEventsReceiver{}
}

// NoopEventsReceiver discards every event. It is the default receiver.
type NoopEventsReceiver struct{}

func (NoopEventsReceiver) OnVerbose(string)      {}
func (NoopEventsReceiver) OnWarning(string)       {}
func (NoopEventsReceiver) OnWarningMinor(string)  {}
func (NoopEventsReceiver) OnException(error)      {}
func (NoopEventsReceiver) OnStateException(error) {}

// StdEventsReceiver reports events to a standard library [log.Logger],
// useful when a caller doesn't want the logiface/stumpy dependency just to
// see diagnostics. Verbose messages are dropped unless Verbose is true.
type StdEventsReceiver struct {
	Logger  *log.Logger
	Verbose bool
}

// NewStdEventsReceiver returns a StdEventsReceiver writing to log.Default().
func NewStdEventsReceiver() *StdEventsReceiver {
	return &StdEventsReceiver{Logger: log.Default()}
}

func (r *StdEventsReceiver) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

func (r *StdEventsReceiver) OnVerbose(msg string) {
	if r.Verbose {
		r.logger().Printf("promise: verbose: %s", msg)
	}
}

func (r *StdEventsReceiver) OnWarning(msg string) {
	r.logger().Printf("promise: warning: %s", msg)
}

func (r *StdEventsReceiver) OnWarningMinor(msg string) {
	r.logger().Printf("promise: minor warning: %s", msg)
}

func (r *StdEventsReceiver) OnException(err error) {
	r.logger().Printf("promise: exception: %v", err)
}

func (r *StdEventsReceiver) OnStateException(err error) {
	r.logger().Printf("promise: illegal state transition: %v", err)
}

// LogifaceEventsReceiver reports events through a [logiface.Logger] built
// on [stumpy], the structured JSON event encoder from the same module
// family as this package's teacher. Each event kind maps to a syslog
// level: OnVerbose/OnWarning/OnWarningMinor to Debug/Warning/Notice, and
// OnException/OnStateException to Error.
type LogifaceEventsReceiver struct {
	Logger *logiface.Logger[*stumpy.Event]
}

// NewLogifaceEventsReceiver builds a LogifaceEventsReceiver writing
// newline-delimited JSON to the default stumpy writer (stderr).
func NewLogifaceEventsReceiver() *LogifaceEventsReceiver {
	return &LogifaceEventsReceiver{Logger: stumpy.L.New()}
}

func (r *LogifaceEventsReceiver) logger() *logiface.Logger[*stumpy.Event] {
	if r.Logger != nil {
		return r.Logger
	}
	return stumpy.L.New()
}

func (r *LogifaceEventsReceiver) OnVerbose(msg string) {
	r.logger().Debug().Log(msg)
}

func (r *LogifaceEventsReceiver) OnWarning(msg string) {
	r.logger().Warning().Log(msg)
}

func (r *LogifaceEventsReceiver) OnWarningMinor(msg string) {
	r.logger().Notice().Log(msg)
}

func (r *LogifaceEventsReceiver) OnException(err error) {
	r.logger().Err().Err(err).Log("unhandled exception")
}

func (r *LogifaceEventsReceiver) OnStateException(err error) {
	r.logger().Err().Err(err).Log("illegal state transition")
}

// PropagateUnhandledException reports a rejection that reached the end of
// a chain without being observed by a Catch/Then(_, onReject)/Finally, via
// [EventsReceiver.OnException]. It tags the message with the promise's id
// and name so OnException handlers can correlate it back to a chain.
func PropagateUnhandledException(source Cancelable, err error) {
	name := source.Name()
	if name == "" {
		sink().OnException(fmt.Errorf("unhandled rejection (promise #%d): %w", source.ID(), err))
		return
	}
	sink().OnException(fmt.Errorf("unhandled rejection (promise %q #%d): %w", name, source.ID(), err))
}
