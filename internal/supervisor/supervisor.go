// Package supervisor runs the controller's long-lived tasks and decides how
// the process exits. The first event wins: an OS signal drains and exits
// cleanly, a task resolution is classified by the task's kind.
package supervisor

import (
	"context"
	"errors"
	"fmt"

	"code.cloudfoundry.org/k8s-policy-controller/internal/drain"

	"code.cloudfoundry.org/lager/v3"
)

type Kind int

const (
	// KindIndexer tasks run forever; any resolution is a failure.
	KindIndexer Kind = iota
	// KindServer tasks serve until torn down; a cancellation-classified
	// resolution is clean.
	KindServer
	// KindAdmission tasks are fatal on every resolution, cancellation
	// included.
	KindAdmission
)

type Task struct {
	Name string
	Kind Kind
	Run  func(ctx context.Context) error
}

type outcome struct {
	task       Task
	err        error
	panicked   bool
	panicValue interface{}
}

type Supervisor struct {
	signal *drain.Signal
	logger lager.Logger
}

func New(signal *drain.Signal, logger lager.Logger) *Supervisor {
	return &Supervisor{
		signal: signal,
		logger: logger,
	}
}

// Run launches every task and blocks until the first resolution. Tasks run
// on a context owned by the supervisor, not on signalCtx: an OS signal must
// drain before anything is torn down. A nil return means the process should
// exit zero.
func (s *Supervisor) Run(signalCtx context.Context, tasks ...Task) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan outcome, len(tasks))
	for _, task := range tasks {
		go s.runTask(ctx, task, outcomes)
	}

	select {
	case <-signalCtx.Done():
		s.logger.Info("shutdown signal received, draining")
		if err := s.signal.Drain(context.Background()); err != nil {
			return fmt.Errorf("draining: %w", err)
		}
		s.logger.Info("drain complete")
		return nil
	case out := <-outcomes:
		return s.classify(out)
	}
}

func (s *Supervisor) runTask(ctx context.Context, task Task, outcomes chan<- outcome) {
	defer func() {
		if v := recover(); v != nil {
			outcomes <- outcome{task: task, panicked: true, panicValue: v}
		}
	}()
	outcomes <- outcome{task: task, err: task.Run(ctx)}
}

func (s *Supervisor) classify(out outcome) error {
	name := out.task.Name

	if out.task.Kind == KindAdmission {
		switch {
		case out.panicked:
			return fmt.Errorf("%s failed: panicked: %v", name, out.panicValue)
		case out.err != nil:
			return fmt.Errorf("%s failed: %w", name, out.err)
		default:
			return fmt.Errorf("%s failed: resolved without error", name)
		}
	}

	if out.panicked {
		return fmt.Errorf("%s panicked: %v", name, out.panicValue)
	}

	if out.err != nil && errors.Is(out.err, context.Canceled) {
		s.logger.Info("task resolved by cancellation", lager.Data{"task": name})
		return nil
	}

	if out.err != nil {
		return fmt.Errorf("%s failed: %w", name, out.err)
	}

	return fmt.Errorf("%s failed: resolved without error", name)
}
