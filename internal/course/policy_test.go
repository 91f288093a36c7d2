package course

import (
	"errors"
	"testing"

	"courseflow/internal/model"
)

func TestValidateOperation(t *testing.T) {
	mutations := []Operation{
		OpEditMetadata, OpUploadCover,
		OpCreateChapter, OpUpdateChapter, OpDeleteChapter, OpReorderChapters,
		OpCreateSection, OpUpdateSection, OpDeleteSection, OpReorderSections,
		OpBindResource,
	}
	statuses := []struct {
		status  model.CourseStatus
		mutable bool
	}{
		{status: model.CourseStatusDraft, mutable: true},
		{status: model.CourseStatusRejected, mutable: true},
		{status: model.CourseStatusReviewing},
		{status: model.CourseStatusPublished},
		{status: model.CourseStatusArchived},
		{status: model.CourseStatus("")},
	}

	for _, st := range statuses {
		if err := ValidateOperation(st.status, OpRead); err != nil {
			t.Fatalf("%s read: expected allowed, got %v", st.status, err)
		}
		for _, op := range mutations {
			t.Run(string(st.status)+" "+op.String(), func(t *testing.T) {
				err := ValidateOperation(st.status, op)
				if st.mutable && err != nil {
					t.Fatalf("expected allowed, got %v", err)
				}
				if !st.mutable && !errors.Is(err, ErrCourseLocked) {
					t.Fatalf("expected ErrCourseLocked, got %v", err)
				}
			})
		}
	}
}

func TestValidateOperation_UnknownOperationBlocked(t *testing.T) {
	for _, op := range []Operation{OpUnspecified, Operation(99)} {
		if err := ValidateOperation(model.CourseStatusDraft, op); err == nil {
			t.Fatalf("operation %d: expected error", op)
		}
	}
}

func TestCourseLockedErrorMetadata(t *testing.T) {
	err := ValidateOperation(model.CourseStatusPublished, OpReorderSections)
	var locked *CourseLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected CourseLockedError, got %T", err)
	}
	if locked.Status != model.CourseStatusPublished || locked.Operation != OpReorderSections {
		t.Fatalf("unexpected metadata: %+v", locked)
	}
	if locked.Error() != "course status published does not allow operation REORDER_SECTIONS" {
		t.Fatalf("unexpected message: %s", locked.Error())
	}
}
