package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courseflow/internal/model"
	"courseflow/internal/pubsub"
	"courseflow/internal/testutil"

	"github.com/rs/zerolog"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const (
	authorID   = "author"
	reviewerID = "reviewer"
	learnerID  = "learner"
)

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]bool
	puts    []string
	getErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]bool{}}
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://storage.test/" + key + "?expires=" + ttl.String(), nil
}

func (f *fakeStorage) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key], nil
}

func (f *fakeStorage) upload(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = true
}

type recordingEvents struct {
	mu     sync.Mutex
	events []pubsub.CourseEvent
}

func (r *recordingEvents) PublishCourseEvent(_ context.Context, ev pubsub.CourseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingEvents) types() []pubsub.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pubsub.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type failingEnrollments struct{}

func (failingEnrollments) HasPurchased(context.Context, string, int64) (bool, error) {
	return false, errors.New("enrollment lookup down")
}

type fixture struct {
	store     *testutil.Store
	storage   *fakeStorage
	events    *recordingEvents
	courses   CourseService
	structure StructureService
	reviews   ReviewService
	content   ContentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	store.AddUser(model.User{UserID: authorID, Name: "Ada"})
	store.AddUser(model.User{UserID: reviewerID, Name: "Rita", Role: model.UserRoleReviewer})
	store.AddUser(model.User{UserID: learnerID, Name: "Lee"})

	logger := zerolog.Nop()
	storage := newFakeStorage()
	events := &recordingEvents{}
	locks := NewCourseLocks()
	media := NewMediaService(store, storage, logger)
	groups := NewQuestionGroupService(store)

	courses := NewCourseService(store, store, storage, locks, CourseServiceConfig{CoverObjectPrefix: "covers", CoverUploadURLTTL: 10 * time.Minute}, logger)
	courses.(*courseService).now = func() time.Time { return fixedNow }
	reviews := NewReviewService(store, store, store, store, store, media, groups, events, locks, logger)
	reviews.(*reviewService).now = func() time.Time { return fixedNow }
	content := NewContentService(store, store, store, media, groups, store, ContentServiceConfig{MediaURLTTL: 5 * time.Minute, ResolveConcurrency: 4}, logger)

	return &fixture{
		store:     store,
		storage:   storage,
		events:    events,
		courses:   courses,
		structure: NewStructureService(store, store, store, store, media, groups, locks, logger),
		reviews:   reviews,
		content:   content,
	}
}

func (f *fixture) createCourse(t *testing.T, pt model.PaymentType, price int64) *model.Course {
	t.Helper()
	c, err := f.courses.CreateCourse(context.Background(), authorID, &model.Course{Title: "Go in practice", PaymentType: pt, PriceCents: price})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func (f *fixture) createChapter(t *testing.T, courseID int64, title string, access model.AccessType) *model.Chapter {
	t.Helper()
	ch, err := f.structure.CreateChapter(context.Background(), authorID, courseID, ChapterInput{Title: title, AccessType: string(access)})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return ch
}

func (f *fixture) createSection(t *testing.T, chapterID int64, title string, access model.AccessType) *model.Section {
	t.Helper()
	sec, err := f.structure.CreateSection(context.Background(), authorID, chapterID, SectionInput{Title: title, AccessType: string(access)})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	return sec
}

func (f *fixture) bindMedia(t *testing.T, sectionID int64) model.Media {
	t.Helper()
	m := f.store.AddMedia(model.Media{Kind: model.ContentTypeVideo, Title: "intro", StoragePath: "media/intro.mp4"})
	if _, err := f.structure.BindMedia(context.Background(), authorID, sectionID, m.ID, ""); err != nil {
		t.Fatalf("bind media: %v", err)
	}
	return m
}

// completeCourse builds a course with one chapter holding one media bound
// section, ready to submit.
func (f *fixture) completeCourse(t *testing.T, pt model.PaymentType, price int64) (*model.Course, *model.Chapter, *model.Section) {
	t.Helper()
	c := f.createCourse(t, pt, price)
	ch := f.createChapter(t, c.ID, "Basics", model.AccessTypePaidOnly)
	sec := f.createSection(t, ch.ID, "Welcome", model.AccessTypeInherit)
	f.bindMedia(t, sec.ID)
	return c, ch, sec
}

// publish walks a complete course through submit and approve.
func (f *fixture) publish(t *testing.T, courseID int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.reviews.SubmitForReview(ctx, authorID, courseID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.reviews.Approve(ctx, reviewerID, courseID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
}
