package cron

import (
	"context"
	"fmt"

	robfig "github.com/robfig/cron/v3"
)

// Scheduler запускает фоновые задачи по cron расписанию
type Scheduler struct {
	cron   *robfig.Cron
	logger Logger
}

func NewScheduler(logger Logger) *Scheduler {
	return &Scheduler{
		cron:   robfig.New(),
		logger: logger,
	}
}

// AddJob регистрирует задачу с указанным cron spec (стандартный 5-польный формат)
func (s *Scheduler) AddJob(spec string, name string, run func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("Scheduler - running job %s", name)
		run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduler: failed to add job %s with spec %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
