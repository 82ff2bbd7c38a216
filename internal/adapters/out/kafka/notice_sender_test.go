package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	noticekafka "notice/internal/adapters/out/kafka"
	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/domain/model/notice"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func finishedRequest(t *testing.T) notice.Request {
	t.Helper()
	o, err := messageorder.NewOrder(kernel.NewUUID(), "nightly scan", []string{"ops@example.com"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, o.Submit())
	require.NoError(t, o.Finish(time.Now()))

	req, err := notice.NewRequest(o, notice.Summary{ReturnSum: 3, ResourcesSum: 12})
	require.NoError(t, err)
	return req
}

func TestNoticeSender_Send(t *testing.T) {
	ctx := t.Context()
	req := finishedRequest(t)

	writer := new(MockWriter)
	writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != req.OrderID.String() {
			return false
		}
		var decoded map[string]any
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		params, ok := decoded["paramMap"].(map[string]any)
		return ok &&
			decoded["event"] == string(notice.EventExecuteSuccessful) &&
			decoded["successMailTemplate"] == notice.SuccessTemplate &&
			params["returnSum"] == float64(3)
	})).Return(nil).Once()

	sender := noticekafka.NewNoticeSenderWithWriter(writer, "notices", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, sender.Send(ctx, req))
	writer.AssertExpectations(t)
}

func TestNoticeSender_SendError(t *testing.T) {
	ctx := t.Context()
	writeErr := errors.New("leader not available")

	writer := new(MockWriter)
	writer.On("WriteMessages", ctx, mock.Anything).Return(writeErr).Once()

	sender := noticekafka.NewNoticeSenderWithWriter(writer, "notices", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := sender.Send(ctx, finishedRequest(t))
	require.ErrorIs(t, err, writeErr)
	assert.Contains(t, err.Error(), "notices")
}

func TestNoticeSender_Close(t *testing.T) {
	writer := new(MockWriter)
	writer.On("Close").Return(nil).Once()

	sender := noticekafka.NewNoticeSenderWithWriter(writer, "notices", slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, sender.Close())
	writer.AssertExpectations(t)
}
