// Package errreport forwards ingestion failures and service faults to Sentry
// when a DSN is configured.
package errreport

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/service"
)

// Config holds Sentry configuration.
type Config struct {
	DSN         string
	Environment string
	Release     string

	// SampleRate controls error sampling (0.0-1.0, default 1.0 = 100%).
	SampleRate float64
	Debug      bool
}

// Init sets up the global Sentry client. An empty DSN disables reporting
// and returns false.
func Init(cfg Config) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Flush waits for buffered events to be sent to the server.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// Reporter captures classification faults and failed use cases.
type Reporter struct {
	hub *sentry.Hub
}

// NewReporter returns a Reporter bound to hub, or to the current hub when
// hub is nil.
func NewReporter(hub *sentry.Hub) *Reporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Reporter{hub: hub}
}

// Enabled reports whether the hub has a client to send to.
func (r *Reporter) Enabled() bool {
	return r.hub.Client() != nil
}

// Record implements classify.Recorder. Only results carrying a service
// fault are reported.
func (r *Reporter) Record(source string, res classify.Result) {
	if res.Err == nil {
		return
	}
	r.capture(res.Err, func(scope *sentry.Scope) {
		scope.SetTag("component", "classifier")
		scope.SetTag("file", source)
		scope.SetContext("classification", sentry.Context{"row": res.Index, "code": res.Code})
	})
}

// ObserveUseCase implements service.UseCaseObserver. Successful use cases
// are ignored.
func (r *Reporter) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	if event.Success {
		return
	}
	err := event.Err
	if err == nil {
		err = errors.New(event.Name + " failed")
	}
	r.capture(err, func(scope *sentry.Scope) {
		scope.SetTag("use_case", event.Name)
		if len(event.Fields) > 0 {
			scope.SetContext("use_case", sentry.Context(event.Fields))
		}
	})
}

// CaptureError reports an error outside the classifier, such as a file that
// could not be ingested.
func (r *Reporter) CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.capture(err, func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
}

// capture sends err from a clone of the reporter's hub. Record is called
// from concurrent classify workers, so scopes must not be shared.
func (r *Reporter) capture(err error, configure func(*sentry.Scope)) {
	hub := r.hub.Clone()
	hub.ConfigureScope(configure)
	hub.CaptureException(err)
}

var (
	_ classify.Recorder       = (*Reporter)(nil)
	_ service.UseCaseObserver = (*Reporter)(nil)
)
