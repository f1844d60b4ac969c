// Package scheduler triggers discovery runs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/uaplan/eventradar/internal/agent"
)

// Scheduler wraps a cron runner around the agent. An empty spec
// disables scheduling entirely.
type Scheduler struct {
	cron  *cron.Cron
	agent *agent.Agent
}

// New registers the run job under spec (standard 5-field cron). The
// scheduler does not start until Start is called.
func New(spec string, ag *agent.Agent) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), agent: ag}
	if spec == "" {
		return s, nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		slog.Info("scheduled discovery run starting")
		if _, err := ag.TryRun(context.Background()); err != nil {
			if errors.Is(err, agent.ErrRunInProgress) {
				slog.Warn("scheduled run skipped, previous run still active")
				return
			}
			slog.Error("scheduled run failed", "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
