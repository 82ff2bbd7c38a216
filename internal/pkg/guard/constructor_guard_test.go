package guard_test

import (
	"errors"
	"sync"
	"testing"

	"notice/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommandNotConstructed = errors.New("command must be created via its constructor")

type guardedCommand struct {
	orderID string
	guard   guard.ConstructorGuard
}

func newGuardedCommand(orderID string) guardedCommand {
	return guardedCommand{orderID: orderID, guard: guard.NewConstructorGuard()}
}

func (c guardedCommand) Validate() error {
	return c.guard.Validate(errCommandNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errCommandNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_supplied_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errCommandNotConstructed)

		assert.Equal(t, errCommandNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	t.Run("constructor_built_command_is_valid", func(t *testing.T) {
		cmd := newGuardedCommand("o-1")

		require.NoError(t, cmd.Validate())
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := guardedCommand{orderID: "o-1"}

		require.ErrorIs(t, cmd.Validate(), errCommandNotConstructed)
	})

	t.Run("copies_keep_the_guard", func(t *testing.T) {
		original := newGuardedCommand("o-1")
		cp := original

		require.NoError(t, cp.Validate())
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
		}()
	}
	wg.Wait()
}
