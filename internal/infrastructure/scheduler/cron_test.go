package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/scheduler"
)

func TestAdd_SpecInvalido(t *testing.T) {
	s := scheduler.New(zerolog.Nop(), 0)
	err := s.Add("overdue", "not a spec", scheduler.JobFunc(func(context.Context) (int, error) { return 0, nil }))
	assert.Error(t, err)
}

func TestScheduler_Ejecuta(t *testing.T) {
	s := scheduler.New(zerolog.Nop(), time.Second)
	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", scheduler.JobFunc(func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	})))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
