package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"trailerstore/pkg/logger"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAcknowledger is a mock implementation of amqp.Acknowledger
type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	args := m.Called(tag, multiple)
	return args.Error(0)
}

func (m *MockAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	args := m.Called(tag, multiple, requeue)
	return args.Error(0)
}

func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	args := m.Called(tag, requeue)
	return args.Error(0)
}

func TestDispatch(t *testing.T) {
	client := &Client{log: logger.Nop()}
	failing := func(amqp.Delivery) error { return errors.New("bad event") }

	tests := []struct {
		name        string
		redelivered bool
		handler     Handler
		expect      func(ack *MockAcknowledger)
	}{
		{
			name:    "success acks",
			handler: func(amqp.Delivery) error { return nil },
			expect:  func(ack *MockAcknowledger) { ack.On("Ack", uint64(7), false).Return(nil).Once() },
		},
		{
			name:    "first failure requeues",
			handler: failing,
			expect:  func(ack *MockAcknowledger) { ack.On("Nack", uint64(7), false, true).Return(nil).Once() },
		},
		{
			name:        "repeated failure drops",
			redelivered: true,
			handler:     failing,
			expect:      func(ack *MockAcknowledger) { ack.On("Nack", uint64(7), false, false).Return(nil).Once() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := new(MockAcknowledger)
			tt.expect(ack)
			client.dispatch(amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Redelivered: tt.redelivered}, tt.handler)
			ack.AssertExpectations(t)
		})
	}
}

func TestClosedClient(t *testing.T) {
	client := &Client{log: logger.Nop()}

	assert.ErrorIs(t, client.Publish(context.Background(), "trailer.created", []byte("{}")), ErrClosed)
	assert.ErrorIs(t, client.Consume(context.Background(), "q", "trailer.*", nil), ErrClosed)
	assert.NoError(t, client.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Publish(ctx, "trailer.created", nil), context.Canceled)
}
