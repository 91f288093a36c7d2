package course

import (
	"errors"
	"testing"

	"courseflow/internal/model"
)

func TestPlanReorder_AssignsPositions(t *testing.T) {
	plan, err := PlanReorder([]int64{1, 2, 3}, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := map[int64]int{3: 0, 1: 1, 2: 2}
	for id, idx := range want {
		if plan[id] != idx {
			t.Fatalf("id %d: expected %d, got %d", id, idx, plan[id])
		}
	}

	again, err := PlanReorder([]int64{3, 1, 2}, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("second plan: %v", err)
	}
	for id, idx := range plan {
		if again[id] != idx {
			t.Fatalf("reorder not idempotent for id %d: %d vs %d", id, idx, again[id])
		}
	}
}

func TestPlanReorder_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		ordered []int64
		check   func(*ReorderMismatchError) bool
	}{
		{name: "omitted child", ordered: []int64{1, 2}, check: func(e *ReorderMismatchError) bool { return len(e.Missing) == 1 && e.Missing[0] == 3 }},
		{name: "foreign child", ordered: []int64{1, 2, 3, 99}, check: func(e *ReorderMismatchError) bool { return len(e.Foreign) == 1 && e.Foreign[0] == 99 }},
		{name: "duplicate child", ordered: []int64{1, 2, 2, 3}, check: func(e *ReorderMismatchError) bool { return len(e.Duplicate) == 1 && e.Duplicate[0] == 2 }},
		{name: "swapped foreign", ordered: []int64{1, 2, 4}, check: func(e *ReorderMismatchError) bool { return len(e.Missing) == 1 && len(e.Foreign) == 1 }},
		{name: "empty list", ordered: nil, check: func(e *ReorderMismatchError) bool { return len(e.Missing) == 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanReorder([]int64{1, 2, 3}, tt.ordered)
			if !errors.Is(err, ErrReorderMismatch) {
				t.Fatalf("expected ErrReorderMismatch, got %v", err)
			}
			if plan != nil {
				t.Fatalf("expected no plan, got %v", plan)
			}
			var mismatch *ReorderMismatchError
			if !errors.As(err, &mismatch) || !tt.check(mismatch) {
				t.Fatalf("unexpected mismatch detail: %+v", mismatch)
			}
		})
	}
}

func TestPlanReorder_EmptyParent(t *testing.T) {
	plan, err := PlanReorder(nil, nil)
	if err != nil || len(plan) != 0 {
		t.Fatalf("expected empty plan, got %v err=%v", plan, err)
	}
}

func TestNextOrderIndex_KeepsGaps(t *testing.T) {
	if got := NextOrderIndex(nil); got != 0 {
		t.Fatalf("expected 0 for empty parent, got %d", got)
	}
	if got := NextOrderIndex([]int{0, 4, 2}); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestBuildStructure_SortsByOrderIndex(t *testing.T) {
	chapters := []model.Chapter{{ID: 2, OrderIndex: 5}, {ID: 1, OrderIndex: 0}}
	sections := []model.Section{
		{ID: 30, ChapterID: 2, OrderIndex: 7},
		{ID: 10, ChapterID: 1, OrderIndex: 3},
		{ID: 20, ChapterID: 2, OrderIndex: 1},
		{ID: 99, ChapterID: 42, OrderIndex: 0},
	}
	s := BuildStructure(model.Course{ID: 1}, chapters, sections)
	if len(s.Chapters) != 2 || s.Chapters[0].Chapter.ID != 1 || s.Chapters[1].Chapter.ID != 2 {
		t.Fatalf("unexpected chapter order: %+v", s.Chapters)
	}
	got := s.Chapters[1].Sections
	if len(got) != 2 || got[0].ID != 20 || got[1].ID != 30 {
		t.Fatalf("unexpected section order: %+v", got)
	}
	if chapters[0].ID != 2 {
		t.Fatal("BuildStructure must not reorder the caller's slice")
	}
}
