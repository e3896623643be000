package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnqueuer(t *testing.T) {
	t.Parallel()

	t.Run("nil pool is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewEnqueuer(nil)
		assert.ErrorIs(t, err, ErrPoolRequired)
	})
}

func TestBuildJobArgs(t *testing.T) {
	t.Parallel()

	t.Run("marshals the payload", func(t *testing.T) {
		t.Parallel()

		args, _, err := buildJobArgs("send_email", map[string]string{"to": "a@b.c"})
		require.NoError(t, err)
		assert.Equal(t, "send_email", args.TaskName)
		assert.JSONEq(t, `{"to":"a@b.c"}`, string(args.Payload))
		assert.Equal(t, "relay:task", args.Kind())
	})

	t.Run("nil payload stays empty", func(t *testing.T) {
		t.Parallel()

		args, _, err := buildJobArgs("cleanup", nil)
		require.NoError(t, err)
		assert.Empty(t, args.Payload)
	})

	t.Run("unmarshalable payload errors", func(t *testing.T) {
		t.Parallel()

		_, _, err := buildJobArgs("bad", func() {})
		assert.Error(t, err)
	})

	t.Run("options map to insert opts", func(t *testing.T) {
		t.Parallel()

		at := time.Now().Add(time.Hour)
		args, insertOpts, err := buildJobArgs("sync_user", nil,
			InQueue("sync"),
			ScheduledAt(at),
			MaxAttempts(3),
			Priority(2),
			Tags("sync", "user:42"),
			UniqueFor(time.Hour),
			UniqueKey("user-42"),
		)
		require.NoError(t, err)
		assert.Equal(t, "sync", insertOpts.Queue)
		assert.Equal(t, at, insertOpts.ScheduledAt)
		assert.Equal(t, 3, insertOpts.MaxAttempts)
		assert.Equal(t, 2, insertOpts.Priority)
		assert.Equal(t, []string{"sync", "user:42"}, insertOpts.Tags)
		assert.Equal(t, time.Hour, insertOpts.UniqueOpts.ByPeriod)
		assert.Equal(t, "user-42", args.UniqueKey)
	})
}
