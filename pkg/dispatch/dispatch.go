// Package dispatch runs user-triggered work off the interactive thread.
//
// The interactive thread owns all UI state. OnTrigger is called on it, shows
// the progress indicator and starts the registered work on a goroutine.
// Everything the work's outcome changes on screen (the fault alert and the
// progress hide) is posted back through Thread.Do.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyRegistered is returned when a second work unit is registered
	ErrAlreadyRegistered = errors.New("work unit already registered")
	// ErrNilWorkUnit is returned when Register is given nil
	ErrNilWorkUnit = errors.New("work unit is nil")
)

// WorkUnit is the caller's operation run for each trigger
type WorkUnit func(ctx context.Context) error

// Thread posts functions to the interactive thread. Posted functions run
// serially and in order.
type Thread interface {
	Do(fn func())
}

// Surface is the part of the screen the dispatcher drives. Its methods are
// only called on the interactive thread.
type Surface interface {
	ShowProgress()
	HideProgress()
	ShowAlert(title, message string)
}

// Config holds configuration for the dispatcher
type Config struct {
	// CaptureWorkFaults turns work faults into alerts. When false the fault
	// is handed to Unhandled instead.
	CaptureWorkFaults bool

	AlertTitle string

	// Context is passed to every work unit
	Context context.Context

	// Unhandled receives faults in diagnostics mode. Defaults to panicking.
	Unhandled func(err error)

	Logger logrus.FieldLogger
}

// DefaultConfig captures faults and titles alerts "Error"
func DefaultConfig() Config {
	return Config{
		CaptureWorkFaults: true,
		AlertTitle:        "Error",
	}
}

// Dispatcher binds one work unit to a trigger.
//
// Progress is reference counted across overlapping triggers. Every trigger
// calls Surface.ShowProgress, but Surface.HideProgress is called once, when
// the last running unit completes.
type Dispatcher struct {
	thread  Thread
	surface Surface
	config  Config
	logger  logrus.FieldLogger

	mu   sync.Mutex
	work WorkUnit

	// interactive thread only
	inFlight int

	wg sync.WaitGroup
}

// New creates a Dispatcher with default configuration
func New(thread Thread, surface Surface) *Dispatcher {
	return NewWithConfig(thread, surface, DefaultConfig())
}

// NewWithConfig creates a Dispatcher with custom configuration
func NewWithConfig(thread Thread, surface Surface, config Config) *Dispatcher {
	if config.AlertTitle == "" {
		config.AlertTitle = DefaultConfig().AlertTitle
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	if config.Unhandled == nil {
		config.Unhandled = func(err error) { panic(err) }
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		thread:  thread,
		surface: surface,
		config:  config,
		logger:  logger,
	}
}

// Register sets the work unit run on every trigger. Only one registration
// is accepted.
func (d *Dispatcher) Register(work WorkUnit) error {
	if work == nil {
		return ErrNilWorkUnit
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.work != nil {
		return ErrAlreadyRegistered
	}
	d.work = work
	return nil
}

// Registered reports whether a work unit is set
func (d *Dispatcher) Registered() bool {
	return d.registered() != nil
}

func (d *Dispatcher) registered() WorkUnit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.work
}

// OnTrigger must be called on the interactive thread. It shows progress and
// starts the work without waiting for it.
func (d *Dispatcher) OnTrigger() {
	work := d.registered()
	if work == nil {
		return
	}

	d.inFlight++
	d.surface.ShowProgress()

	d.wg.Add(1)
	go d.run(work)
}

// InFlight returns the number of started units whose completion has not
// yet reached the interactive thread. Call it on the interactive thread.
func (d *Dispatcher) InFlight() int {
	return d.inFlight
}

// Wait blocks until every started unit has returned. Completion actions may
// still be queued on the interactive thread.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(work WorkUnit) {
	defer d.wg.Done()
	defer d.thread.Do(d.finish)

	err := d.invoke(work)
	if err == nil {
		return
	}

	if !d.config.CaptureWorkFaults {
		d.config.Unhandled(err)
		return
	}

	root := RootCause(err)
	d.logger.WithError(err).WithField("cause", root.Error()).Error("work unit failed")

	title := d.config.AlertTitle
	message := root.Error()
	d.thread.Do(func() {
		d.surface.ShowAlert(title, message)
	})
}

func (d *Dispatcher) invoke(work WorkUnit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return work(d.config.Context)
}

func (d *Dispatcher) finish() {
	if d.inFlight > 0 {
		d.inFlight--
	}
	if d.inFlight == 0 {
		d.surface.HideProgress()
	}
}

// PanicError carries a value recovered from a panicking work unit
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	if err, ok := p.Value.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap exposes an error panic value so RootCause can reach it
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// RootCause follows the wrap chain of err to its innermost error. Joined
// errors are followed through their first branch.
func RootCause(err error) error {
	for err != nil {
		var next error
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := x.Unwrap(); len(errs) > 0 {
				next = errs[0]
			}
		case interface{ Unwrap() error }:
			next = x.Unwrap()
		}
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
