package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job - периодическая служебная задача.
type Job struct {
	Name string
	// Spec в формате cron, например "@every 10m"
	Spec string
	Run  func(ctx context.Context) error
}

// Janitor запускает служебные задачи по расписанию.
type Janitor struct {
	cron    *cron.Cron
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewJanitor(log *zap.SugaredLogger, jobs ...Job) (*Janitor, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	j := &Janitor{cron: cron.New(), log: log, timeout: time.Minute}
	for _, job := range jobs {
		if _, err := j.cron.AddFunc(job.Spec, j.wrap(job)); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.Name, err)
		}
	}
	return j, nil
}

func (j *Janitor) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			j.log.Warnw("janitor job failed", "job", job.Name, "error", err)
		}
	}
}

// Start запускает планировщик в фоне.
func (j *Janitor) Start() { j.cron.Start() }

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Entries - число запланированных задач.
func (j *Janitor) Entries() int { return len(j.cron.Entries()) }
