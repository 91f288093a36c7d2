package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"
	"courseflow/internal/testutil"
)

func seedCourse(t *testing.T, repo repository.CourseRepository) *model.Course {
	t.Helper()
	c := &model.Course{Title: "Go in practice", CreatorID: "author", PaymentType: model.PaymentTypeFree, Status: model.CourseStatusDraft}
	if err := repo.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func TestChapterRepo_AppendAndReorder(t *testing.T) {
	pool := testutil.Pool(t)
	testutil.SeedUser(t, pool, "author", "member")
	ctx := context.Background()
	courses := repository.NewCourseRepo(pool)
	chapters := repository.NewChapterRepo(pool)
	c := seedCourse(t, courses)

	var ids []int64
	for _, title := range []string{"one", "two", "three"} {
		ch := &model.Chapter{CourseID: c.ID, Title: title, AccessType: model.AccessTypePaidOnly}
		if err := chapters.CreateChapter(ctx, ch); err != nil {
			t.Fatalf("create chapter: %v", err)
		}
		if ch.OrderIndex != len(ids) {
			t.Fatalf("expected order index %d, got %d", len(ids), ch.OrderIndex)
		}
		ids = append(ids, ch.ID)
	}

	reordered := []int64{ids[2], ids[0], ids[1]}
	if err := chapters.ReorderChapters(ctx, c.ID, reordered); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got, err := chapters.GetChaptersByCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, ch := range got {
		if ch.ID != reordered[i] || ch.OrderIndex != i {
			t.Fatalf("position %d: got chapter %d at %d", i, ch.ID, ch.OrderIndex)
		}
	}

	err = chapters.ReorderChapters(ctx, c.ID, []int64{ids[0], ids[1]})
	if !errors.Is(err, course.ErrReorderMismatch) {
		t.Fatalf("expected ErrReorderMismatch, got %v", err)
	}
	after, _ := chapters.GetChaptersByCourse(ctx, c.ID)
	for i := range after {
		if after[i].ID != got[i].ID || after[i].OrderIndex != got[i].OrderIndex {
			t.Fatal("failed reorder changed stored order")
		}
	}
}

func TestSectionRepo_BindingRoundTripAndCascade(t *testing.T) {
	pool := testutil.Pool(t)
	testutil.SeedUser(t, pool, "author", "member")
	mediaID := testutil.SeedMedia(t, pool, "video", "media/intro.mp4")
	ctx := context.Background()
	c := seedCourse(t, repository.NewCourseRepo(pool))
	chapters := repository.NewChapterRepo(pool)
	sections := repository.NewSectionRepo(pool)

	ch := &model.Chapter{CourseID: c.ID, Title: "Intro", AccessType: model.AccessTypeFreeTrial}
	if err := chapters.CreateChapter(ctx, ch); err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	sec := &model.Section{ChapterID: ch.ID, Title: "Welcome", ContentType: model.ContentTypeText}
	if err := sections.CreateSection(ctx, sec); err != nil {
		t.Fatalf("create section: %v", err)
	}
	if sec.Binding != nil || sec.AccessType != model.AccessTypeInherit {
		t.Fatalf("unexpected new section: %+v", sec)
	}

	if err := course.Bind(sec, model.MediaBinding{MediaID: mediaID}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := sections.UpdateSection(ctx, sec); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, err := sections.GetSectionByID(ctx, sec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	mb, ok := stored.Binding.(model.MediaBinding)
	if !ok || mb.MediaID != mediaID || mb.Role != model.DefaultMediaRole {
		t.Fatalf("binding not persisted: %#v", stored.Binding)
	}

	if err := chapters.DeleteChapter(ctx, ch.ID); err != nil {
		t.Fatalf("delete chapter: %v", err)
	}
	gone, err := sections.GetSectionByID(ctx, sec.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected section removed by cascade, got %+v err=%v", gone, err)
	}
}

func TestReviewRepo_GuardedTransitions(t *testing.T) {
	pool := testutil.Pool(t)
	testutil.SeedUser(t, pool, "author", "member")
	testutil.SeedUser(t, pool, "reviewer", "reviewer")
	ctx := context.Background()
	courses := repository.NewCourseRepo(pool)
	reviews := repository.NewReviewRepo(pool)
	c := seedCourse(t, courses)

	now := time.Now().UTC().Truncate(time.Second)
	c.Status = model.CourseStatusReviewing
	c.SubmittedAt = &now
	c.UpdatedAt = now
	task, err := reviews.OpenReview(ctx, c, model.CourseStatusDraft)
	if err != nil {
		t.Fatalf("open review: %v", err)
	}
	if task.Decision != model.ReviewDecisionPending {
		t.Fatalf("expected pending task, got %s", task.Decision)
	}

	stale := *c
	stale.Status = model.CourseStatusReviewing
	if _, err := reviews.OpenReview(ctx, &stale, model.CourseStatusDraft); !errors.Is(err, repository.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}

	c.Status = model.CourseStatusRejected
	c.ReviewerID = "reviewer"
	c.ReviewedAt = &now
	c.ReviewComment = "needs work"
	closed, err := reviews.CloseReview(ctx, c, model.CourseStatusReviewing, model.ReviewDecisionRejected, "needs work")
	if err != nil {
		t.Fatalf("close review: %v", err)
	}
	if closed.Decision != model.ReviewDecisionRejected || closed.Comment != "needs work" || closed.ReviewerID != "reviewer" {
		t.Fatalf("unexpected closed task: %+v", closed)
	}

	open, err := reviews.GetOpenTasks(ctx, 10, 0)
	if err != nil || len(open) != 0 {
		t.Fatalf("expected no open tasks, got %v err=%v", open, err)
	}
	history, err := reviews.GetTasksByCourse(ctx, c.ID)
	if err != nil || len(history) != 1 {
		t.Fatalf("expected one task in history, got %v err=%v", history, err)
	}
}

func TestEnrollmentAndQuestionGroups(t *testing.T) {
	pool := testutil.Pool(t)
	testutil.SeedUser(t, pool, "author", "member")
	ctx := context.Background()
	c := seedCourse(t, repository.NewCourseRepo(pool))
	testutil.SeedEnrollment(t, pool, "learner", c.ID)

	enrollments := repository.NewEnrollmentRepo(pool)
	if ok, err := enrollments.HasPurchased(ctx, "learner", c.ID); err != nil || !ok {
		t.Fatalf("expected purchase, got %v err=%v", ok, err)
	}
	if ok, err := enrollments.HasPurchased(ctx, "stranger", c.ID); err != nil || ok {
		t.Fatalf("expected no purchase, got %v err=%v", ok, err)
	}

	groupID := testutil.SeedQuestionGroup(t, pool, "Quiz", 3, 1, 2)
	groups := repository.NewQuestionGroupRepo(pool)
	items, err := groups.GetItemsByGroup(ctx, groupID)
	if err != nil || len(items) != 3 || items[0].Difficulty != 3 {
		t.Fatalf("unexpected items: %+v err=%v", items, err)
	}
	missing, err := groups.GetGroupByID(ctx, groupID+100)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing group, got %+v err=%v", missing, err)
	}
}
