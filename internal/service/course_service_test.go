package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
)

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		in      model.Course
		wantErr error
	}{
		{name: "free draft", userID: authorID, in: model.Course{Title: "Intro", PaymentType: model.PaymentTypeFree}},
		{name: "paid draft", userID: authorID, in: model.Course{Title: "Pro", PaymentType: model.PaymentTypePaid, PriceCents: 4900}},
		{name: "paid without price", userID: authorID, in: model.Course{Title: "Pro", PaymentType: model.PaymentTypePaid}, wantErr: course.ErrInvalidPayment},
		{name: "free with price", userID: authorID, in: model.Course{Title: "Odd", PaymentType: model.PaymentTypeFree, PriceCents: 10}, wantErr: course.ErrInvalidPayment},
		{name: "missing title", userID: authorID, in: model.Course{PaymentType: model.PaymentTypeFree}, wantErr: ErrInvalidInput},
		{name: "no profile", userID: "stranger", in: model.Course{Title: "Intro", PaymentType: model.PaymentTypeFree}, wantErr: ErrProfileRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.Status = model.CourseStatusPublished
			in.ReviewerID = "someone"
			c, err := f.courses.CreateCourse(ctx, tt.userID, &in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if c.ID == 0 || c.Status != model.CourseStatusDraft || c.CreatorID != tt.userID || c.ReviewerID != "" {
				t.Fatalf("unexpected course: %+v", c)
			}
		})
	}
}

func TestGetCourse_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, _, _ := f.completeCourse(t, model.PaymentTypeFree, 0)

	tests := []struct {
		name    string
		userID  string
		wantErr error
	}{
		{name: "author", userID: authorID},
		{name: "reviewer", userID: reviewerID},
		{name: "learner", userID: learnerID, wantErr: ErrNotFound},
		{name: "anonymous", userID: "", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run("draft "+tt.name, func(t *testing.T) {
			_, err := f.courses.GetCourse(ctx, tt.userID, c.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	f.publish(t, c.ID)
	if _, err := f.courses.GetCourse(ctx, "", c.ID); err != nil {
		t.Fatalf("anonymous on published course: %v", err)
	}
}

func TestUpdateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCourse(t, model.PaymentTypeFree, 0)

	updated, err := f.courses.UpdateCourse(ctx, authorID, &model.Course{ID: c.ID, Title: "Renamed", PaymentType: model.PaymentTypePaid, PriceCents: 1500, Status: model.CourseStatusPublished})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" || updated.PriceCents != 1500 || updated.Status != model.CourseStatusDraft {
		t.Fatalf("unexpected course: %+v", updated)
	}

	if _, err := f.courses.UpdateCourse(ctx, learnerID, &model.Course{ID: c.ID, Title: "Mine", PaymentType: model.PaymentTypeFree}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.courses.UpdateCourse(ctx, authorID, &model.Course{ID: c.ID, Title: "Cheap", PaymentType: model.PaymentTypePaid}); !errors.Is(err, course.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestCoverUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCourse(t, model.PaymentTypeFree, 0)

	if _, err := f.courses.RequestCoverUpload(ctx, authorID, c.ID, "application/pdf"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-image, got %v", err)
	}

	upload, err := f.courses.RequestCoverUpload(ctx, authorID, c.ID, "image/png")
	if err != nil {
		t.Fatalf("request upload: %v", err)
	}
	if !strings.HasPrefix(upload.ObjectKey, "covers/") || !strings.Contains(upload.UploadURL, upload.ObjectKey) {
		t.Fatalf("unexpected upload: %+v", upload)
	}
	if !upload.ExpiresAt.Equal(fixedNow.Add(10 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", upload.ExpiresAt)
	}

	if _, err := f.courses.ConfirmCoverUpload(ctx, authorID, c.ID, upload.ObjectKey); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("confirm before upload: expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.courses.ConfirmCoverUpload(ctx, authorID, c.ID, "covers/999/x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("foreign key: expected ErrInvalidInput, got %v", err)
	}

	f.storage.upload(upload.ObjectKey)
	updated, err := f.courses.ConfirmCoverUpload(ctx, authorID, c.ID, upload.ObjectKey)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.CoverURL != upload.ObjectKey {
		t.Fatalf("expected cover %s, got %s", upload.ObjectKey, updated.CoverURL)
	}
}

func TestListMyCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createCourse(t, model.PaymentTypeFree, 0)
	f.createCourse(t, model.PaymentTypeFree, 0)

	mine, err := f.courses.ListMyCourses(ctx, authorID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected two courses, got %d err=%v", len(mine), err)
	}
	others, err := f.courses.ListMyCourses(ctx, learnerID)
	if err != nil || len(others) != 0 {
		t.Fatalf("expected no courses, got %d err=%v", len(others), err)
	}
}
