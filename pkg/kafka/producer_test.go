package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewProducer(context.Background(), &ProducerConfig{ClientID: "nftix"})
	assert.Error(t, err)
}

func TestNewProducer_GivesUpOnUnreachableCluster(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewProducer(ctx, &ProducerConfig{
		Brokers:       []string{"127.0.0.1:1"},
		ClientID:      "nftix-test",
		MaxRetries:    1,
		RetryInterval: 10 * time.Millisecond,
	})
	assert.Error(t, err)
}
