package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	learnJob         *LearnJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	LearnJob         *LearnJob
	Logger           zerolog.Logger
}

// LearnMessage represents a preference learning job message. A message with
// a user id re-learns that user; the batch job type re-learns every user
// with recent feedback.
type LearnMessage struct {
	JobType string `json:"job_type"`
	UserID  string `json:"user_id,omitempty"`
}

// Job types accepted on the learning subscription.
const (
	JobTypeLearnUser = "preference_learn"
	JobTypeLearnAll  = "preference_learn_all"
)

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		learnJob:         cfg.LearnJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var learnMsg LearnMessage
	if err := json.Unmarshal(msg.Data, &learnMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch learnMsg.JobType {
	case JobTypeLearnUser:
		err = h.handleLearnUser(ctx, learnMsg)
	case JobTypeLearnAll:
		err = h.handleLearnAll(ctx)
	default:
		logger.Warn().Str("job_type", learnMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", learnMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleLearnUser(ctx context.Context, msg LearnMessage) error {
	if msg.UserID == "" {
		h.logger.Warn().Msg("learn message without user id, dropping")
		return nil
	}

	updated, err := h.learnJob.LearnUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("learning user %s: %w", msg.UserID, err)
	}

	h.logger.Info().
		Str("user_id", msg.UserID).
		Bool("updated", updated).
		Msg("user learning pass completed")
	return nil
}

func (h *PubSubHandler) handleLearnAll(ctx context.Context) error {
	result := h.learnJob.Run(ctx)

	// Consider the batch successful if most users got through.
	if result.Failed > result.Updated+result.Skipped {
		return fmt.Errorf("too many learning failures: %d/%d", result.Failed, result.TotalUsers)
	}
	return nil
}

// Publisher enqueues learning work onto the worker's topic. It implements
// the planner's TaskPublisher.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the learn-task publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a new learn-task publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishLearnTask enqueues a learning pass for one user.
func (p *Publisher) PublishLearnTask(ctx context.Context, userID string) error {
	data, err := json.Marshal(LearnMessage{JobType: JobTypeLearnUser, UserID: userID})
	if err != nil {
		return fmt.Errorf("marshaling learn message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing learn task: %w", err)
	}

	p.logger.Debug().
		Str("user_id", userID).
		Str("message_id", id).
		Str("topic", p.topicName).
		Msg("learn task published")
	return nil
}

// Close stops the publisher and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
