package commands_test

import (
	"testing"

	"notice/internal/core/application/usecases/commands"
	"notice/internal/core/domain/model/kernel"
	"notice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateMessageOrderCommand_ValidInput(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewCreateMessageOrderCommand(
		"  weekly scan ",
		[]string{"ops@example.com", " ", "sec@example.com "},
		[]kernel.UUID{a, b, a},
	)

	require.NoError(t, err)
	assert.Equal(t, "weekly scan", cmd.Name())
	assert.Equal(t, []string{"ops@example.com", "sec@example.com"}, cmd.Recipients())
	assert.Equal(t, []kernel.UUID{a, b}, cmd.TaskIDs())
}

func TestNewCreateMessageOrderCommand_InvalidInput(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := commands.NewCreateMessageOrderCommand("", nil, []kernel.UUID{kernel.NewUUID()})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("no tasks", func(t *testing.T) {
		_, err := commands.NewCreateMessageOrderCommand("scan", nil, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero task id", func(t *testing.T) {
		_, err := commands.NewCreateMessageOrderCommand("scan", nil, []kernel.UUID{{}})
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestCreateMessageOrderCommand_ZeroValueIsInvalid(t *testing.T) {
	require.ErrorIs(t, commands.CreateMessageOrderCommand{}.Validate(), commands.ErrCreateMessageOrderCommandIsNotConstructed)
}
