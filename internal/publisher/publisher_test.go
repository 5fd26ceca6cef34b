package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/pkg/kafka"
	"github.com/ravkun27/nftix/pkg/retry"
)

// MockProducer is a mock implementation of producer
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockProducer) Close() {
	m.Called()
}

func receipt() *mintflow.Receipt {
	return &mintflow.Receipt{
		EventID:  "evt-1",
		TokenID:  "AB12CD34",
		TxHash:   "0xfeed",
		Owner:    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		MintedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishTicketMinted(t *testing.T) {
	prod := new(MockProducer)
	var sent *kafka.Message
	prod.On("Produce", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*kafka.Message) }).
		Return(nil).Once()

	p := newKafkaPublisher(prod, "", nil)
	require.NoError(t, p.PublishTicketMinted(context.Background(), receipt()))

	require.NotNil(t, sent)
	assert.Equal(t, "ticket.minted", sent.Topic)
	assert.Equal(t, []byte(receipt().Owner), sent.Key)
	assert.Equal(t, "ticket.minted", sent.Headers["event_type"])

	var payload TicketMinted
	require.NoError(t, json.Unmarshal(sent.Value, &payload))
	assert.Equal(t, "evt-1", payload.EventID)
	assert.Equal(t, "0xfeed", payload.TxHash)
	assert.NotEmpty(t, payload.ID)
	prod.AssertExpectations(t)
}

func TestKafkaPublisher_RetriesThenFails(t *testing.T) {
	prod := new(MockProducer)
	prod.On("Produce", mock.Anything, mock.Anything).Return(errors.New("broker not available"))

	p := newKafkaPublisher(prod, "tickets", nil)
	p.policy = retry.Policy{Attempts: 2, Base: time.Millisecond, Cap: time.Millisecond}

	err := p.PublishTicketMinted(context.Background(), receipt())
	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	prod.AssertNumberOfCalls(t, "Produce", 2)
}

func TestKafkaPublisher_Close(t *testing.T) {
	prod := new(MockProducer)
	prod.On("Close").Return().Once()

	assert.NoError(t, newKafkaPublisher(prod, "", nil).Close())
	prod.AssertExpectations(t)
}

func TestNoOpPublisher(t *testing.T) {
	p := NewNoOpPublisher()
	assert.NoError(t, p.PublishTicketMinted(context.Background(), receipt()))
	assert.NoError(t, p.Close())
}
