package service

import (
	"context"
	"encoding/json"

	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const progressModule = "ProgressService"

// IProgressService carries the incrementing counters of long runs (sync,
// export, import) to whoever displays them.
type IProgressService interface {
	Publish(ctx context.Context, evt events.BaseEvent)
	Subscribe(ctx context.Context) (<-chan events.BaseEvent, error)
	// LogProgress subscribes and writes every event to the logger until ctx is done.
	LogProgress(ctx context.Context) error
}

// EventForwarder sends events to a bus outside this process (NATS).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type progressService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	forwarders []EventForwarder
	logger     logger.ILogger
}

func NewProgressService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger, forwarders ...EventForwarder) IProgressService {
	return &progressService{
		pubSub:     pubSub,
		topicName:  topicName,
		forwarders: forwarders,
		logger:     log,
	}
}

// NewGoChannel builds the in-process bus used for progress events.
func NewGoChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
}

func (s *progressService) Publish(ctx context.Context, evt events.BaseEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Warn(progressModule, "Failed to encode progress event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	// Progress is advisory: a failed publish never fails the run.
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Warn(progressModule, "Failed to publish progress event", map[string]interface{}{"error": err.Error()})
	}

	for _, fwd := range s.forwarders {
		if err := fwd.Publish(ctx, evt); err != nil {
			s.logger.Warn(progressModule, "Failed to forward progress event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *progressService) Subscribe(ctx context.Context) (<-chan events.BaseEvent, error) {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return nil, err
	}

	out := make(chan events.BaseEvent, 64)
	go func() {
		defer close(out)
		for msg := range messages {
			var evt events.BaseEvent
			err := json.Unmarshal(msg.Payload, &evt)
			msg.Ack()
			if err != nil {
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *progressService) LogProgress(ctx context.Context) error {
	updates, err := s.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for evt := range updates {
			s.logger.Debug(progressModule, evt.EventType(), evt.Payload())
		}
	}()
	return nil
}
