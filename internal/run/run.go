// Package run drives the wakeup procedure end to end:
// check the shutdown tooling, acquire the execution lock, compute the next
// wake instant, arm the RTC alarm over the PiSugar socket, wait out the
// wind-down interval, and power the host off.
//
// The sequence is strictly linear with two early exits (tool missing, lock
// held). Transmission failures are informational: the run proceeds to
// shutdown whether or not the alarm was armed.
package run

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wakepi/wakepi/internal/config"
	"github.com/wakepi/wakepi/internal/history"
	"github.com/wakepi/wakepi/internal/lockfile"
	"github.com/wakepi/wakepi/internal/pisugar"
	"github.com/wakepi/wakepi/internal/power"
	"github.com/wakepi/wakepi/internal/wakeup"
	"github.com/wakepi/wakepi/pkg/logger"
)

// historyKeep bounds the wake-event store after each run.
const historyKeep = 500

// AlarmClient is the slice of the PiSugar client the runner needs.
type AlarmClient interface {
	SetRTCAlarm(t time.Time, alarmID int) (string, error)
	Battery() (int, error)
}

// Dependencies holds the external dependencies of a run.
// This enables dependency injection for testing.
type Dependencies struct {
	// Now returns the current instant. If nil, time.Now is used.
	Now func() time.Time

	// Sleep pauses for the wind-down interval. If nil, time.Sleep is used.
	Sleep func(time.Duration)

	// CheckTool verifies the shutdown tooling. If nil, power.Check is used.
	CheckTool func() error

	// Shutdown issues the power-off request. If nil, power.Off is used.
	Shutdown func() error

	// Client talks to the alarm service. If nil, a pisugar.Client for the
	// configured address is used.
	Client AlarmClient

	// History records wake events. May be nil, in which case nothing is
	// persisted beyond the log.
	History *history.Store
}

// Options select per-invocation behavior of Run.
type Options struct {
	// DryRun computes and logs the wake instant without touching the
	// network or the power state.
	DryRun bool

	// NoShutdown arms the alarm but skips the wind-down and power-off.
	NoShutdown bool
}

// Runner executes the wakeup procedure.
type Runner struct {
	cfg  config.Config
	log  logger.Logger
	deps Dependencies
}

// New creates a runner. Nil dependency fields are filled with the real
// implementations.
func New(cfg config.Config, log logger.Logger, deps Dependencies) *Runner {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	if deps.CheckTool == nil {
		deps.CheckTool = power.Check
	}
	if deps.Shutdown == nil {
		deps.Shutdown = power.Off
	}
	if deps.Client == nil {
		deps.Client = pisugar.New(cfg.PiSugarAddr, cfg.DialTimeout, cfg.ReadTimeout)
	}
	return &Runner{cfg: cfg, log: log, deps: deps}
}

// Run performs the full procedure. It returns a non-nil error only for the
// fatal early exits (tooling missing, lock held) and for a failed power-off
// request; everything else is reported through the log and tolerated.
func (r *Runner) Run(opts Options) error {
	if err := r.deps.CheckTool(); err != nil {
		r.log.Error("shutdown tooling unavailable: %v", err)
		return fmt.Errorf("shutdown tooling unavailable: %w", err)
	}

	lock, err := lockfile.Acquire(r.cfg.LockPath)
	if err != nil {
		if err == lockfile.ErrHeld {
			r.log.Info("another run holds %s, exiting", r.cfg.LockPath)
			return err
		}
		r.log.Error("cannot acquire %s: %v", r.cfg.LockPath, err)
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			r.log.Error("failed to release %s: %v", r.cfg.LockPath, rerr)
		}
	}()

	// The lock must be freed on signal-induced termination too, not just
	// on return paths.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sig)
		close(sig)
	}()
	go func() {
		s, ok := <-sig
		if !ok {
			return
		}
		r.log.Info("received %s, releasing lock and exiting", s)
		lock.Release()
		os.Exit(1)
	}()

	now := r.deps.Now()
	wakeAt := wakeup.Next(now, r.cfg.FirstWake, r.cfg.SecondWake, r.cfg.Rollover)
	r.log.Info("next wakeup is %s (candidates %s/%s, rollover %s)",
		pisugar.FormatTimestamp(wakeAt), r.cfg.FirstWake, r.cfg.SecondWake, r.cfg.Rollover)

	if opts.DryRun {
		r.log.Info("dry run, not arming alarm")
		r.record(now, wakeAt, "", history.ActionDryRun)
		return nil
	}

	if pct, err := r.deps.Client.Battery(); err != nil {
		r.log.Warning("battery query failed: %v", err)
	} else {
		r.log.Info("battery at %d%%", pct)
	}

	r.log.Info("setting RTC wakeup for %s", pisugar.FormatTimestamp(wakeAt))
	resp, err := r.deps.Client.SetRTCAlarm(wakeAt, r.cfg.AlarmID)
	if err != nil {
		// Not fatal: the host still goes down, accepting that the alarm
		// may not have been armed.
		r.log.Error("RTC alarm not armed: %v", err)
		resp = ""
	} else {
		r.log.Info("RTC alarm response: %s", resp)
	}

	if opts.NoShutdown {
		r.log.Info("shutdown suppressed, leaving host up")
		r.record(now, wakeAt, resp, history.ActionSkipped)
		return nil
	}
	if r.cfg.DetectManualBoot && !r.cfg.FirstWake.SameHour(now) && !r.cfg.SecondWake.SameHour(now) {
		r.log.Info("possible manual boot up, not shutting down")
		r.record(now, wakeAt, resp, history.ActionSkipped)
		return nil
	}

	r.log.Info("waiting %s before shutdown", r.cfg.WindDown)
	r.deps.Sleep(r.cfg.WindDown)

	r.log.Info("shutting down system")
	r.record(now, wakeAt, resp, history.ActionShutdown)
	if err := r.deps.Shutdown(); err != nil {
		r.log.Error("power-off request failed: %v", err)
		return err
	}
	return nil
}

// record persists one wake event and prunes the store. History failures are
// logged and otherwise ignored; the store is an aid, not a dependency.
func (r *Runner) record(at, wakeAt time.Time, resp, action string) {
	if r.deps.History == nil {
		return
	}
	if err := r.deps.History.Record(history.Event{
		At:       at,
		WakeAt:   wakeAt,
		Response: resp,
		Action:   action,
	}); err != nil {
		r.log.Warning("failed to record wake event: %v", err)
		return
	}
	if err := r.deps.History.Prune(historyKeep); err != nil {
		r.log.Warning("failed to prune wake events: %v", err)
	}
}
