package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (j *testJob) Name() string { return j.name }

func (j *testJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "jobs-test"})
}

func TestRegistrySkipsNilAndPreservesOrder(t *testing.T) {
	t.Parallel()

	first := &testJob{name: "first"}
	second := &testJob{name: "second"}
	registry := NewRegistry(first, nil, second)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != Job(first) || jobs[1] != Job(second) {
		t.Fatalf("jobs returned out of order")
	}

	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}

func TestCycleRunsEveryJobAndCombinesFailures(t *testing.T) {
	t.Parallel()

	ok := &testJob{name: "ok"}
	broken := &testJob{name: "broken", err: errors.New("boom")}
	alsoOK := &testJob{name: "also-ok"}
	runner, err := NewRunner(RunnerParams{
		Logger:   testLogger(),
		Registry: NewRegistry(ok, broken, alsoOK),
	})
	if err != nil {
		t.Fatalf("construct runner: %v", err)
	}

	cycleErr := runner.cycle(context.Background())
	if cycleErr == nil {
		t.Fatalf("expected the broken job's failure to surface")
	}
	if !strings.Contains(cycleErr.Error(), "broken") {
		t.Fatalf("combined error should name the failing job, got %v", cycleErr)
	}
	if ok.runs != 1 || broken.runs != 1 || alsoOK.runs != 1 {
		t.Fatalf("every job must run once, got %d/%d/%d", ok.runs, broken.runs, alsoOK.runs)
	}
}

func TestCycleSkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	job := &testJob{name: "guarded"}
	lock := &fakeLock{held: true}
	runner, err := NewRunner(RunnerParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct runner: %v", err)
	}

	if err := runner.cycle(context.Background()); err != nil {
		t.Fatalf("contended cycle should be a clean skip: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job must not run without the lock")
	}
}

func TestCycleReleasesLockAfterRun(t *testing.T) {
	t.Parallel()

	job := &testJob{name: "guarded"}
	lock := &fakeLock{}
	runner, err := NewRunner(RunnerParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct runner: %v", err)
	}

	if err := runner.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected job to run once, ran %d", job.runs)
	}
	if lock.releases != 1 || lock.held {
		t.Fatalf("lock must be released after the cycle")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	job := &testJob{name: "tick"}
	runner, err := NewRunner(RunnerParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Cadence:  time.Hour,
	})
	if err != nil {
		t.Fatalf("construct runner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected the immediate cycle to run once, ran %d", job.runs)
	}
}
