package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"courseflow/internal/model"
	"courseflow/internal/testutil"

	"github.com/rs/zerolog"
)

func visibleSection(t *testing.T, vs *model.VisibleStructure, sectionID int64) model.VisibleSection {
	t.Helper()
	for _, ch := range vs.Chapters {
		for _, sec := range ch.Sections {
			if sec.Section.ID == sectionID {
				return sec
			}
		}
	}
	t.Fatalf("section %d not in structure", sectionID)
	return model.VisibleSection{}
}

func TestResolveVisibleStructure_PaidCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, ch, paid := f.completeCourse(t, model.PaymentTypePaid, 2500)
	trial := f.createSection(t, ch.ID, "Preview", model.AccessTypeFreeTrial)
	f.bindMedia(t, trial.ID)
	f.publish(t, c.ID)

	t.Run("not purchased", func(t *testing.T) {
		vs, err := f.content.ResolveVisibleStructure(ctx, learnerID, c.ID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		locked := visibleSection(t, vs, paid.ID)
		if locked.Visibility != model.VisibilityPaywalled || locked.Content != nil || locked.Section.Binding != nil {
			t.Fatalf("expected paywalled section without content: %+v", locked)
		}
		open := visibleSection(t, vs, trial.ID)
		if open.Visibility != model.VisibilityAllowed || open.Content == nil {
			t.Fatalf("expected trial section to resolve: %+v", open)
		}
		if !strings.HasPrefix(open.Content.AccessURL, "https://storage.test/media/intro.mp4") || !strings.Contains(open.Content.AccessURL, "5m0s") {
			t.Fatalf("unexpected access url %q", open.Content.AccessURL)
		}
	})

	t.Run("purchased", func(t *testing.T) {
		f.store.Enroll(learnerID, c.ID)
		vs, err := f.content.ResolveVisibleStructure(ctx, learnerID, c.ID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if sec := visibleSection(t, vs, paid.ID); sec.Visibility != model.VisibilityAllowed || sec.Content == nil {
			t.Fatalf("expected purchased section to resolve: %+v", sec)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		before := f.store.CallCount("HasPurchased")
		vs, err := f.content.ResolveVisibleStructure(ctx, "", c.ID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if sec := visibleSection(t, vs, paid.ID); sec.Visibility != model.VisibilityPaywalled {
			t.Fatalf("expected anonymous viewer to be paywalled: %+v", sec)
		}
		if f.store.CallCount("HasPurchased") != before {
			t.Fatal("anonymous viewer must not trigger a purchase lookup")
		}
	})
}

func TestResolveVisibleStructure_FreeCourseAnonymous(t *testing.T) {
	f := newFixture(t)
	c, _, sec := f.completeCourse(t, model.PaymentTypeFree, 0)
	f.publish(t, c.ID)

	vs, err := f.content.ResolveVisibleStructure(context.Background(), "", c.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := visibleSection(t, vs, sec.ID); got.Visibility != model.VisibilityAllowed || got.Content == nil {
		t.Fatalf("expected free section to resolve: %+v", got)
	}
	if f.store.CallCount("HasPurchased") != 0 {
		t.Fatal("free course must not trigger a purchase lookup")
	}
}

func TestResolveVisibleStructure_MissingResourceIsUnavailable(t *testing.T) {
	f := newFixture(t)
	c, _, sec := f.completeCourse(t, model.PaymentTypeFree, 0)
	f.publish(t, c.ID)
	stored, _ := f.store.GetSectionByID(context.Background(), sec.ID)
	f.store.RemoveMedia(stored.Binding.ResourceID())

	vs, err := f.content.ResolveVisibleStructure(context.Background(), learnerID, c.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := visibleSection(t, vs, sec.ID)
	if !got.ContentUnavailable || got.Content != nil {
		t.Fatalf("expected content_unavailable section: %+v", got)
	}
}

func TestResolveVisibleStructure_StorageFailureFails(t *testing.T) {
	f := newFixture(t)
	c, _, _ := f.completeCourse(t, model.PaymentTypeFree, 0)
	f.publish(t, c.ID)
	f.storage.getErr = errors.New("signing failed")

	if _, err := f.content.ResolveVisibleStructure(context.Background(), learnerID, c.ID); err == nil {
		t.Fatal("expected storage error to fail the render")
	}
}

func TestResolveVisibleStructure_UnpublishedCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, _, _ := f.completeCourse(t, model.PaymentTypePaid, 1200)

	if _, err := f.content.ResolveVisibleStructure(ctx, learnerID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("learner on draft: expected ErrNotFound, got %v", err)
	}
	vs, err := f.content.ResolveVisibleStructure(ctx, authorID, c.ID)
	if err != nil {
		t.Fatalf("author on draft: %v", err)
	}
	for _, ch := range vs.Chapters {
		for _, sec := range ch.Sections {
			if sec.Visibility != model.VisibilityAllowed {
				t.Fatalf("author should see every section: %+v", sec)
			}
		}
	}

	if _, err := f.reviews.SubmitForReview(ctx, authorID, c.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.reviews.StartReview(ctx, reviewerID, c.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if _, err := f.content.ResolveVisibleStructure(ctx, reviewerID, c.ID); err != nil {
		t.Fatalf("assigned reviewer: %v", err)
	}
	if f.store.CallCount("HasPurchased") != 0 {
		t.Fatal("privileged viewers must not trigger a purchase lookup")
	}
}

func TestResolveVisibleStructure_PurchaseLookupError(t *testing.T) {
	store := testutil.NewStore()
	logger := zerolog.Nop()
	svc := NewContentService(store, store, store, NewMediaService(store, newFakeStorage(), logger), NewQuestionGroupService(store), failingEnrollments{}, ContentServiceConfig{}, logger)
	c := &model.Course{Title: "Paid", CreatorID: authorID, PaymentType: model.PaymentTypePaid, PriceCents: 100, Status: model.CourseStatusPublished}
	if err := store.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.ResolveVisibleStructure(context.Background(), learnerID, c.ID); err == nil {
		t.Fatal("expected enrollment error")
	}
}

func TestResolveVisibleStructure_QuestionGroupOptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCourse(t, model.PaymentTypeFree, 0)
	ch := f.createChapter(t, c.ID, "Quiz", "")
	sec := f.createSection(t, ch.ID, "Check", "")
	group := f.store.AddQuestionGroup(model.QuestionGroup{Title: "Quiz"},
		model.QuestionGroupItem{Position: 0, Difficulty: 3, Prompt: "hard", Analysis: "because"},
		model.QuestionGroupItem{Position: 1, Difficulty: 1, Prompt: "easy", Analysis: "because"},
		model.QuestionGroupItem{Position: 2, Difficulty: 2, Prompt: "medium", Analysis: "because"},
	)
	if _, err := f.structure.BindQuestionGroup(ctx, authorID, sec.ID, group.ID, model.QuizOptions{OrderByDifficulty: true}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	f.publish(t, c.ID)

	vs, err := f.content.ResolveVisibleStructure(ctx, learnerID, c.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	content := visibleSection(t, vs, sec.ID).Content
	if content == nil || content.QuestionGroup == nil || content.QuestionGroup.ID != group.ID {
		t.Fatalf("expected question group content, got %+v", content)
	}
	var prompts []string
	for _, item := range content.Items {
		prompts = append(prompts, item.Prompt)
		if item.Analysis != "" {
			t.Fatalf("analysis must be hidden: %+v", item)
		}
	}
	if !slices.Equal(prompts, []string{"easy", "medium", "hard"}) {
		t.Fatalf("expected difficulty order, got %v", prompts)
	}
}

func TestPresentItems(t *testing.T) {
	svc := &contentService{shuffle: slices.Reverse[[]model.QuestionGroupItem]}
	items := []model.QuestionGroupItem{
		{ID: 1, Difficulty: 2, Analysis: "a"},
		{ID: 2, Difficulty: 1, Analysis: "b"},
		{ID: 3, Difficulty: 2, Analysis: "c"},
	}

	tests := []struct {
		name         string
		opts         model.QuizOptions
		wantIDs      []int64
		wantAnalysis bool
	}{
		{name: "authored order", opts: model.QuizOptions{ShowAnalysis: true}, wantIDs: []int64{1, 2, 3}, wantAnalysis: true},
		{name: "random order", opts: model.QuizOptions{RandomOrder: true}, wantIDs: []int64{3, 2, 1}},
		{name: "difficulty is stable", opts: model.QuizOptions{OrderByDifficulty: true, RandomOrder: true}, wantIDs: []int64{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.presentItems(items, tt.opts)
			var ids []int64
			for _, item := range got {
				ids = append(ids, item.ID)
				if (item.Analysis != "") != tt.wantAnalysis {
					t.Fatalf("analysis visibility wrong: %+v", item)
				}
			}
			if !slices.Equal(ids, tt.wantIDs) {
				t.Fatalf("expected %v, got %v", tt.wantIDs, ids)
			}
		})
	}
	if items[0].ID != 1 || items[0].Analysis != "a" {
		t.Fatal("presentItems must not modify its input")
	}
}
