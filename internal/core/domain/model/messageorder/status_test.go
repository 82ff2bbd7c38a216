package messageorder_test

import (
	"fmt"
	"testing"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := map[messageorder.Status]string{
		messageorder.Unknown:    "UNKNOWN",
		messageorder.Pending:    "PENDING",
		messageorder.Processing: "PROCESSING",
		messageorder.Finished:   "FINISHED",
		messageorder.Error:      "ERROR",
		messageorder.Status(42): "UNKNOWN",
	}

	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse names case-insensitively", func(t *testing.T) {
		for _, in := range []string{"PROCESSING", "processing", " Processing "} {
			status, err := messageorder.ParseStatus(in)

			require.NoError(t, err)
			assert.Equal(t, messageorder.Processing, status)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, in := range []string{"", "UNKNOWN", "DONE"} {
			status, err := messageorder.ParseStatus(in)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, in)
			assert.Equal(t, messageorder.Unknown, status)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range []messageorder.Status{
		messageorder.Pending, messageorder.Processing, messageorder.Finished, messageorder.Error,
	} {
		t.Run(fmt.Sprintf("should accept %s", s), func(t *testing.T) {
			require.NoError(t, s.Validate())
		})
	}

	for _, s := range []messageorder.Status{messageorder.Unknown, messageorder.Status(-1), messageorder.Status(9)} {
		t.Run(fmt.Sprintf("should reject %d", s), func(t *testing.T) {
			require.ErrorIs(t, s.Validate(), errs.ErrValueIsInvalid)
		})
	}
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("only Processing can finish or fail", func(t *testing.T) {
		for _, s := range []messageorder.Status{
			messageorder.Unknown, messageorder.Pending, messageorder.Finished, messageorder.Error,
		} {
			_, err := s.Finish()
			require.Error(t, err, s.String())

			_, err = s.Fail()
			require.Error(t, err, s.String())
		}

		finished, err := messageorder.Processing.Finish()
		require.NoError(t, err)
		assert.Equal(t, messageorder.Finished, finished)

		failed, err := messageorder.Processing.Fail()
		require.NoError(t, err)
		assert.Equal(t, messageorder.Error, failed)
	})

	t.Run("only Pending can be submitted", func(t *testing.T) {
		next, err := messageorder.Pending.Submit()
		require.NoError(t, err)
		assert.Equal(t, messageorder.Processing, next)

		_, err = messageorder.Processing.Submit()
		require.Error(t, err)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.True(t, messageorder.Finished.IsTerminal())
		assert.True(t, messageorder.Error.IsTerminal())
		assert.False(t, messageorder.Processing.IsTerminal())
		assert.False(t, messageorder.Pending.IsTerminal())
	})
}
