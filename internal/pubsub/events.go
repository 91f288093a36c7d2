package pubsub

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"courseflow/internal/model"

	"github.com/rs/zerolog"
)

// EventType names a course lifecycle event.
type EventType string

const (
	EventCourseSubmitted EventType = "course.submitted"
	EventReviewStarted   EventType = "course.review_started"
	EventCourseApproved  EventType = "course.approved"
	EventCourseRejected  EventType = "course.rejected"
	EventCourseReopened  EventType = "course.reopened"
	EventCourseArchived  EventType = "course.archived"
)

// CourseEvent is the JSON payload published after a lifecycle transition.
type CourseEvent struct {
	Type       EventType          `json:"type"`
	CourseID   int64              `json:"course_id"`
	Status     model.CourseStatus `json:"status"`
	ActorID    string             `json:"actor_id"`
	Comment    string             `json:"comment,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// CourseEventPublisher announces lifecycle transitions to downstream consumers.
type CourseEventPublisher interface {
	PublishCourseEvent(ctx context.Context, ev CourseEvent)
}

type courseEventPublisher struct {
	publisher Publisher
	topic     string
	logger    zerolog.Logger
}

// NewCourseEventPublisher wraps a Publisher. A nil publisher yields a
// publisher that only logs, for deployments without Pub/Sub.
func NewCourseEventPublisher(publisher Publisher, topic string, logger zerolog.Logger) CourseEventPublisher {
	return &courseEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "CourseEventPublisher").Logger(),
	}
}

// PublishCourseEvent never fails the caller: the transition is already
// committed, so errors are logged.
func (p *courseEventPublisher) PublishCourseEvent(ctx context.Context, ev CourseEvent) {
	if p.publisher == nil {
		p.logger.Debug().Str("type", string(ev.Type)).Int64("course_id", ev.CourseID).Msg("Pub/Sub disabled, event dropped")
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error().Err(err).Int64("course_id", ev.CourseID).Msg("Failed to marshal course event")
		return
	}
	attrs := map[string]string{
		"type":      string(ev.Type),
		"course_id": strconv.FormatInt(ev.CourseID, 10),
	}
	msgID, err := p.publisher.Publish(ctx, p.topic, payload, attrs)
	if err != nil {
		p.logger.Error().Err(err).Str("type", string(ev.Type)).Int64("course_id", ev.CourseID).Msg("Failed to publish course event")
		return
	}
	p.logger.Debug().Str("message_id", msgID).Str("type", string(ev.Type)).Int64("course_id", ev.CourseID).Msg("Course event published")
}
