package course

import (
	"testing"

	"courseflow/internal/model"
)

func TestCanView(t *testing.T) {
	paid := model.Course{ID: 1, CreatorID: "author", ReviewerID: "reviewer", PaymentType: model.PaymentTypePaid, PriceCents: 1999}
	free := model.Course{ID: 2, CreatorID: "author", PaymentType: model.PaymentTypeFree}
	paidChapter := model.Chapter{ID: 10, AccessType: model.AccessTypePaidOnly}
	trialChapter := model.Chapter{ID: 11, AccessType: model.AccessTypeFreeTrial}
	inherit := model.Section{ID: 100}
	trialOverride := model.Section{ID: 101, AccessType: model.AccessTypeFreeTrial}
	paidOverride := model.Section{ID: 102, AccessType: model.AccessTypePaidOnly}

	tests := []struct {
		name    string
		viewer  model.Viewer
		course  model.Course
		chapter model.Chapter
		section model.Section
		want    model.Visibility
	}{
		{name: "paid chapter no enrollment", viewer: model.Viewer{UserID: "learner"}, course: paid, chapter: paidChapter, section: inherit, want: model.VisibilityPaywalled},
		{name: "paid chapter purchased", viewer: model.Viewer{UserID: "learner", HasPurchased: true}, course: paid, chapter: paidChapter, section: inherit, want: model.VisibilityAllowed},
		{name: "free course anonymous", viewer: model.Viewer{}, course: free, chapter: paidChapter, section: paidOverride, want: model.VisibilityAllowed},
		{name: "trial chapter anonymous", viewer: model.Viewer{}, course: paid, chapter: trialChapter, section: inherit, want: model.VisibilityAllowed},
		{name: "section trial override", viewer: model.Viewer{UserID: "learner"}, course: paid, chapter: paidChapter, section: trialOverride, want: model.VisibilityAllowed},
		{name: "section paid override of trial chapter", viewer: model.Viewer{UserID: "learner"}, course: paid, chapter: trialChapter, section: paidOverride, want: model.VisibilityPaywalled},
		{name: "anonymous purchase flag ignored", viewer: model.Viewer{HasPurchased: true}, course: paid, chapter: paidChapter, section: inherit, want: model.VisibilityPaywalled},
		{name: "owner bypasses payment", viewer: model.Viewer{UserID: "author"}, course: paid, chapter: paidChapter, section: inherit, want: model.VisibilityAllowed},
		{name: "assigned reviewer bypasses payment", viewer: model.Viewer{UserID: "reviewer"}, course: paid, chapter: paidChapter, section: paidOverride, want: model.VisibilityAllowed},
		{name: "chapter without access type is paid", viewer: model.Viewer{UserID: "learner"}, course: paid, chapter: model.Chapter{ID: 12}, section: inherit, want: model.VisibilityPaywalled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.viewer, tt.course, tt.chapter, tt.section); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestIsPrivileged_EmptyReviewerDoesNotMatchAnonymous(t *testing.T) {
	c := model.Course{CreatorID: "author"}
	if IsPrivileged(model.Viewer{}, c) {
		t.Fatal("anonymous viewer must not be privileged")
	}
}

func TestFilterStructure_StripsPaywalledBindings(t *testing.T) {
	s := model.CourseStructure{
		Course: model.Course{ID: 1, CreatorID: "author", PaymentType: model.PaymentTypePaid, PriceCents: 500},
		Chapters: []model.ChapterStructure{{
			Chapter: model.Chapter{ID: 10, AccessType: model.AccessTypePaidOnly},
			Sections: []model.Section{
				{ID: 100, AccessType: model.AccessTypeFreeTrial, Binding: model.MediaBinding{MediaID: 1, Role: "primary"}},
				{ID: 101, Binding: model.MediaBinding{MediaID: 2, Role: "primary"}},
			},
		}},
	}

	out := FilterStructure(model.Viewer{UserID: "learner"}, s)
	secs := out.Chapters[0].Sections
	if secs[0].Visibility != model.VisibilityAllowed || secs[0].Section.Binding == nil {
		t.Fatalf("trial section should keep its binding: %+v", secs[0])
	}
	if secs[1].Visibility != model.VisibilityPaywalled || secs[1].Section.Binding != nil {
		t.Fatalf("paid section should be paywalled without binding: %+v", secs[1])
	}
	if secs[1].Access != model.AccessTypePaidOnly {
		t.Fatalf("expected inherited paid_only access, got %s", secs[1].Access)
	}
	if s.Chapters[0].Sections[1].Binding == nil {
		t.Fatal("FilterStructure must not mutate its input")
	}
}
