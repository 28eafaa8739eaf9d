package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func TestNew_RejectsNonPositiveInterval(t *testing.T) {
	_, err := New(0, func() {})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	s, err := New(20*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)

	s.Start()
	_, err = s.NextRun()
	require.NoError(t, err)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	after := runs.Load()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, after, runs.Load())
}
