package task_test

import (
	"testing"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/task"
	"notice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in       string
		want     task.Status
		terminal bool
	}{
		{"FINISHED", task.Finished, true},
		{"finished", task.Finished, true},
		{"Warning", task.Warning, true},
		{"error", task.Error, true},
		{"PROCESSING", task.Processing, false},
		{"APPROVED", task.Approved, false},
		{"UNCHECKED", task.Unchecked, false},
		{"RESCANNING", task.Unknown, false},
		{"", task.Unknown, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := task.ParseStatus(tc.in)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.terminal, got.IsTerminal())
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "WARNING", task.Warning.String())
	assert.Equal(t, "UNKNOWN", task.Status(99).String())
}

func TestRestoreTask(t *testing.T) {
	t.Run("should restore a task snapshot", func(t *testing.T) {
		id := kernel.NewUUID()

		tk, err := task.RestoreTask(id, "s3 public buckets", task.Warning, 3, 12)

		require.NoError(t, err)
		require.NoError(t, tk.Validate())
		assert.True(t, id.IsEqual(tk.ID()))
		assert.Equal(t, "s3 public buckets", tk.Name())
		assert.Equal(t, 3, tk.ReturnSum())
		assert.Equal(t, 12, tk.ResourcesSum())
		assert.True(t, tk.IsTerminal())
	})

	t.Run("should reject negative sums", func(t *testing.T) {
		_, err := task.RestoreTask(kernel.NewUUID(), "x", task.Finished, -1, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject zero id", func(t *testing.T) {
		_, err := task.RestoreTask(kernel.UUID{}, "x", task.Finished, 0, 0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var tk task.Task

		require.ErrorIs(t, tk.Validate(), task.ErrTaskIsNotConstructed)
	})
}
