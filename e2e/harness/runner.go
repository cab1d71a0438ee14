package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/google/uuid"
)

// DefaultTerminateGrace is how long teardown waits for the launched process.
const DefaultTerminateGrace = 5 * time.Second

// Options configure a Runner. Only Config and Driver are required.
type Options struct {
	Config Config
	Driver automation.Driver

	// ProcessTable defaults to the system process table.
	ProcessTable ProcessTable
	// Clipboard defaults to the system clipboard.
	Clipboard *Clipboard
	// Launch defaults to Launch.
	Launch  func(LaunchCommand, LaunchOptions) (*ManagedProcess, error)
	Logger  *slog.Logger
	Metrics *Metrics

	Timeouts       automation.Timeouts
	AttachTimeout  time.Duration
	WaitTimeout    time.Duration
	WaitInterval   time.Duration
	TerminateGrace time.Duration
	// Clock drives every wait; tests substitute a fake one.
	Clock Clock
}

// Runner executes scenarios against a freshly launched application, one
// scenario per launch.
type Runner struct {
	opts Options
	plan Plan
}

// NewRunner resolves the launch plan up front, so configuration errors
// surface before any process is started.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Driver == nil {
		return nil, &ConfigError{Key: EnvDriver, Reason: "no automation driver configured"}
	}
	plan, err := ResolvePlan(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.ProcessTable == nil {
		opts.ProcessTable = SystemProcessTable()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = NewClipboard()
	}
	if opts.Launch == nil {
		opts.Launch = Launch
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Timeouts == (automation.Timeouts{}) {
		opts.Timeouts = automation.DefaultTimeouts
	}
	if opts.AttachTimeout <= 0 {
		opts.AttachTimeout = DefaultTimeout
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultTimeout
	}
	if opts.TerminateGrace <= 0 {
		opts.TerminateGrace = DefaultTerminateGrace
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Runner{opts: opts, plan: plan}, nil
}

// Plan returns the resolved launch plan.
func (r *Runner) Plan() Plan { return r.plan }

// run is the state of one scenario execution.
type run struct {
	report  *Report
	logger  *slog.Logger
	proc    *ManagedProcess
	uiPID   int
	session automation.Session
}

// Run launches the application, drives scenario through it and tears
// everything down again, whatever the outcome. The returned error is the
// report's error.
func (r *Runner) Run(scenario Scenario) (*Report, error) {
	rn := &run{
		report: &Report{
			RunID:    uuid.NewString(),
			Scenario: scenario.Name,
			Final:    StateInit,
			Started:  time.Now(),
		},
	}
	rn.logger = r.opts.Logger.With("run", rn.report.RunID, "scenario", scenario.Name)
	rn.logger.Info("running scenario", "description", scenario.Description)

	r.runAndTeardown(rn, scenario)

	rn.report.Duration = time.Since(rn.report.Started)
	if r.opts.Metrics != nil {
		r.opts.Metrics.ObserveRun(rn.report)
	}
	if rn.report.Err != nil {
		rn.logger.Error("scenario failed", "state", rn.report.Final, "error", rn.report.Err)
	} else {
		rn.logger.Info("scenario passed", "duration", rn.report.Duration)
	}
	return rn.report, rn.report.Err
}

// runAndTeardown releases what the run acquired even when a step panics.
// The panic itself is not recovered.
func (r *Runner) runAndTeardown(rn *run, scenario Scenario) {
	defer r.teardown(rn)
	r.execute(rn, scenario)
}

func (r *Runner) execute(rn *run, scenario Scenario) {
	if err := scenario.Validate(); err != nil {
		rn.fail("validate", err)
		return
	}

	var fixture *Fixture
	if scenario.NeedsFixture {
		f, err := NewFixture(r.plan.Resources())
		if err != nil {
			rn.fail("load fixture", err)
			return
		}
		fixture = f
		rn.logger.Info("fixture loaded", "archive", f.ArchivePath, "entries", f.EntryCount(), "index", f.EntryIndex)
	}

	proc, err := r.opts.Launch(r.plan.Command(), LaunchOptions{PTY: r.opts.Config.LaunchPTY, Logger: rn.logger})
	if err != nil {
		rn.fail("launch", err)
		return
	}
	rn.proc = proc

	uiPID, err := ResolveUIProcess(r.plan, proc.PID, r.opts.ProcessTable, PollSpec{Clock: r.opts.Clock})
	if err != nil {
		rn.fail("resolve UI process", err)
		return
	}
	rn.uiPID = uiPID
	rn.logger.Info("UI process resolved", "launched", proc.PID, "ui", uiPID)

	session, err := Attach(r.opts.Driver, uiPID, r.opts.Timeouts, PollSpec{
		Timeout: r.opts.AttachTimeout,
		Clock:   r.opts.Clock,
	})
	if err != nil {
		rn.fail("attach", err)
		return
	}
	rn.session = session
	rn.report.Final = StateAttached
	rn.logger.Info("attached", "driver", r.opts.Driver.Name(), "pid", uiPID)

	ctx := &StepContext{
		Session:      session,
		Fixture:      fixture,
		Clipboard:    r.opts.Clipboard,
		Logger:       rn.logger,
		WaitTimeout:  r.opts.WaitTimeout,
		WaitInterval: r.opts.WaitInterval,
		clock:        r.opts.Clock,
	}
	for i, step := range scenario.Steps {
		rn.logger.Info("step", "n", i+1, "name", step.Name, "from", rn.report.Final, "to", step.To)
		start := time.Now()
		err := step.Run(ctx)
		rn.report.Steps = append(rn.report.Steps, StepResult{
			Name:     step.Name,
			To:       step.To,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			rn.fail(step.Name, err)
			return
		}
		rn.report.Final = step.To
	}
}

// fail records the failure against the current state and moves to
// StateFailed.
func (rn *run) fail(step string, err error) {
	rn.report.Err = &StepError{Step: step, State: rn.report.Final, Err: err}
	rn.report.FailedIn = rn.report.Final
	rn.report.Final = StateFailed
}

// teardown always dumps the element tree and releases the session and every
// process the run acquired. Its errors are logged, never returned.
func (r *Runner) teardown(rn *run) {
	if rn.session != nil {
		if root, err := rn.session.Root(); err != nil {
			rn.logger.Warn("cannot dump element tree", "error", err)
		} else {
			DumpTree(rn.logger, root)
		}
		if err := rn.session.Close(); err != nil {
			rn.logger.Warn("closing automation session", "error", err)
		}
	}
	if rn.proc == nil {
		return
	}
	if rn.uiPID != 0 && rn.uiPID != rn.proc.PID {
		if err := KillPID(rn.uiPID); err != nil {
			rn.logger.Warn("killing UI process", "pid", rn.uiPID, "error", err)
		}
	}
	if err := rn.proc.Terminate(r.opts.TerminateGrace); err != nil {
		rn.logger.Warn("terminating launched process", "pid", rn.proc.PID, "error", err)
	}
}

// RunAll runs each scenario with its own launch and returns every report.
func (r *Runner) RunAll(scenarios []Scenario) ([]*Report, error) {
	reports := make([]*Report, 0, len(scenarios))
	var failed []string
	for _, s := range scenarios {
		rep, err := r.Run(s)
		reports = append(reports, rep)
		if err != nil {
			failed = append(failed, s.Name)
		}
	}
	if len(failed) > 0 {
		return reports, fmt.Errorf("%d of %d scenarios failed: %v", len(failed), len(scenarios), failed)
	}
	return reports, nil
}
