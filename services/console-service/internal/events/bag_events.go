package events

import (
	"context"
	"time"

	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
	pkgkafka "github.com/Tanmoy095/LogiSynapse/shared/kafka"
	"github.com/google/uuid"
)

const EventSubBagCreated = "bag.sub_bag_created"

// BagEvent is what the console publishes after the backend accepts a transfer.
type BagEvent struct {
	ID         string                          `json:"id"`
	Event      string                          `json:"event"`
	OccurredAt time.Time                       `json:"occurred_at"`
	Payload    contracts.SubBagTransferRequest `json:"payload"`
}

// BagEvents publishes bag events keyed by the parent bag AWB, so every event
// about one bag lands on the same partition.
type BagEvents struct {
	producer pkgkafka.Publisher
	now      func() time.Time
}

func NewBagEvents(producer pkgkafka.Publisher) *BagEvents {
	return &BagEvents{producer: producer, now: time.Now}
}

// SubBagCreated publishes EventSubBagCreated for req.
func (b *BagEvents) SubBagCreated(ctx context.Context, req contracts.SubBagTransferRequest) error {
	return b.producer.Publish(ctx, req.OldBagAWB, BagEvent{
		ID:         uuid.NewString(),
		Event:      EventSubBagCreated,
		OccurredAt: b.now().UTC(),
		Payload:    req,
	})
}
