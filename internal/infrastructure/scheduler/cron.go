// Package scheduler corre tareas periódicas con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job tarea programable; devuelve cuántos elementos procesó.
type Job interface {
	Run(ctx context.Context) (int, error)
}

// JobFunc adapta una función a Job.
type JobFunc func(ctx context.Context) (int, error)

// Run implementa Job.
func (f JobFunc) Run(ctx context.Context) (int, error) { return f(ctx) }

// Scheduler envoltura de cron con logging y timeout por ejecución.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// New construye el scheduler en UTC. timeout acota cada ejecución (0 = sin límite).
func New(log zerolog.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		log:     log,
		timeout: timeout,
	}
}

// Add registra job bajo spec ("@daily", "0 6 * * *", ...). Dos ejecuciones del mismo job no se solapan.
func (s *Scheduler) Add(name, spec string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.runOnce(name, job)
	}))
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("scheduler: job %s: %w", name, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("tarea programada")
	return nil
}

func (s *Scheduler) runOnce(name string, job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := job.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("tarea fallida")
		return
	}
	s.log.Debug().Str("job", name).Int("processed", n).Dur("took", time.Since(start)).Msg("tarea completada")
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler y espera a que terminen las tareas en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: apagado sin esperar tareas en curso")
	}
}
