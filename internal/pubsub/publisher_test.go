package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"courseflow/internal/config"
	"courseflow/internal/model"

	ps "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{}
	if _, err := NewPublisher(context.Background(), cfg); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

type recordingPublisher struct {
	topic   string
	payload []byte
	attrs   map[string]string
	err     error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte, attrs map[string]string) (string, error) {
	r.topic, r.payload, r.attrs = topic, payload, attrs
	if r.err != nil {
		return "", r.err
	}
	return "msg-1", nil
}

func TestCourseEventPublisher_EncodesEvent(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewCourseEventPublisher(rec, "course-events", zerolog.Nop())
	ev := CourseEvent{
		Type:       EventCourseRejected,
		CourseID:   42,
		Status:     model.CourseStatusRejected,
		ActorID:    "reviewer",
		Comment:    "needs better cover",
		OccurredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	pub.PublishCourseEvent(context.Background(), ev)

	if rec.topic != "course-events" {
		t.Fatalf("expected topic course-events, got %s", rec.topic)
	}
	if rec.attrs["type"] != "course.rejected" || rec.attrs["course_id"] != "42" {
		t.Fatalf("unexpected attributes: %v", rec.attrs)
	}
	var got CourseEvent
	if err := json.Unmarshal(rec.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Comment != ev.Comment || got.Status != ev.Status {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestCourseEventPublisher_SwallowsErrors(t *testing.T) {
	pub := NewCourseEventPublisher(&recordingPublisher{err: errors.New("unavailable")}, "course-events", zerolog.Nop())
	pub.PublishCourseEvent(context.Background(), CourseEvent{Type: EventCourseApproved, CourseID: 1})

	NewCourseEventPublisher(nil, "course-events", zerolog.Nop()).
		PublishCourseEvent(context.Background(), CourseEvent{Type: EventCourseApproved, CourseID: 1})
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: emulator}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}
	defer pub.Close()

	topicName := "test-course-events"
	topic, err := pub.client.CreateTopic(ctx, topicName)
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	sub, err := pub.client.CreateSubscription(ctx, "test-course-events-sub", ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	msgID, err := pub.Publish(ctx, topicName, []byte(`{"type":"course.submitted"}`), map[string]string{"type": "course.submitted"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan *ps.Message, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m
			m.Ack()
			cancel()
		})
	}()

	select {
	case m := <-c:
		if m.Attributes["type"] != "course.submitted" {
			t.Fatalf("expected type attribute, got %v", m.Attributes)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
