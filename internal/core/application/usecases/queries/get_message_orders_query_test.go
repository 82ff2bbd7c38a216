package queries_test

import (
	"testing"

	"notice/internal/core/application/usecases/queries"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetMessageOrdersQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := queries.NewGetMessageOrdersQuery("", 0)

		require.NoError(t, err)
		require.NoError(t, q.Validate())
		assert.Nil(t, q.Status())
		assert.Equal(t, queries.DefaultMessageOrdersLimit, q.Limit())
	})

	t.Run("status is case-insensitive", func(t *testing.T) {
		q, err := queries.NewGetMessageOrdersQuery("Processing", 5)

		require.NoError(t, err)
		require.NotNil(t, q.Status())
		assert.Equal(t, messageorder.Processing, *q.Status())
		assert.Equal(t, 5, q.Limit())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := queries.NewGetMessageOrdersQuery("DONE", 5)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("limit out of range", func(t *testing.T) {
		_, err := queries.NewGetMessageOrdersQuery("", -1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = queries.NewGetMessageOrdersQuery("", queries.MaxMessageOrdersLimit+1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		require.ErrorIs(t, queries.GetMessageOrdersQuery{}.Validate(), queries.ErrGetMessageOrdersQueryIsNotConstructed)
	})
}
