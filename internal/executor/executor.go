// Package executor runs parsed commands against a hosting account.
//
// Every command variant maps to one or more HostingClient calls. Results
// that carry data are returned for printing; state changes return a result
// without data. Comments and onerror lines are handled by the caller and
// produce no result here.
//
// Usage:
//
//	exec := executor.New(client)
//	result, err := exec.Execute(ctx, cmd)
package executor

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	"tipctl/internal/command"
	"tipctl/internal/errors"
	"tipctl/internal/interfaces"
	"tipctl/internal/logging"
	"tipctl/internal/models"
)

// Executor runs commands against one hosting client.
type Executor struct {
	client interfaces.HostingClient
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleeper replaces the function used by sleep commands.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithClock replaces the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// New creates an executor for client.
func New(client interfaces.HostingClient, opts ...Option) *Executor {
	e := &Executor{
		client: client,
		sleep:  sleepContext,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one command.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) (*models.Result, error) {
	if cmd == nil {
		return nil, errors.ValidationError("command cannot be nil")
	}

	logging.FromContext(ctx).Debug("executing command", "command", cmd.String())

	data, err := e.dispatch(ctx, cmd)
	if ctxErr := contextError(err); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, errors.WrapError(apiError(err), "", fmt.Sprintf("%s failed", cmd)).
			WithContext("command", cmd.String())
	}

	return &models.Result{
		Command:    cmd.String(),
		Data:       data,
		ExecutedAt: e.now(),
	}, nil
}

func (e *Executor) dispatch(ctx context.Context, cmd command.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case command.Comment, command.OnError:
		return nil, nil
	case command.Ping:
		return apiCall(e.client.Ping(ctx))
	case command.AvailabilityZones:
		return apiCall(e.client.AvailabilityZones(ctx))
	case command.Sleep:
		if c.Seconds > maxSleepSeconds {
			return nil, errors.ValidationErrorf("sleep of %d seconds is too long", c.Seconds).
				WithContext("maxSeconds", uint64(maxSleepSeconds))
		}
		return nil, e.sleep(ctx, time.Duration(c.Seconds)*time.Second)
	case command.DNS:
		return e.executeDNS(ctx, c.Sub)
	case command.Domain:
		return e.executeDomain(ctx, c.Sub)
	case command.Invoice:
		return e.executeInvoice(ctx, c.Sub)
	case command.Product:
		return e.executeProduct(ctx, c.Sub)
	case command.VPS:
		return e.executeVPS(ctx, c.Sub)
	case command.EmailBox:
		return e.executeMailBox(ctx, c.Sub)
	case command.EmailForward:
		return e.executeMailForward(ctx, c.Sub)
	default:
		panic(fmt.Sprintf("executor: unhandled command %T", cmd))
	}
}

// maxSleepSeconds is the longest sleep a time.Duration can hold.
const maxSleepSeconds = math.MaxInt64 / uint64(time.Second)

// contextError returns the context error err carries, however deeply it is wrapped.
func contextError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.Canceled):
		return context.Canceled
	case stderrors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	}
	return nil
}

// apiCall turns a typed client result into printable data.
func apiCall[T any](value T, err error) (interface{}, error) {
	if err != nil {
		return nil, apiError(err)
	}
	return value, nil
}

// apiError keeps typed errors and classifies anything else as an API failure.
func apiError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsCommandError(err); ok {
		return err
	}
	return errors.APIErrorWithCause("hosting API call failed", err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
