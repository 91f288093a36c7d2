package course

import (
	"sort"

	"courseflow/internal/model"
)

// PlanReorder validates that ordered names exactly the ids in current and
// returns the new orderIndex for every id (its position in ordered).
// Applying the same plan twice yields the same assignment.
func PlanReorder(current []int64, ordered []int64) (map[int64]int, error) {
	existing := make(map[int64]bool, len(current))
	for _, id := range current {
		existing[id] = true
	}

	mismatch := &ReorderMismatchError{}
	seen := make(map[int64]bool, len(ordered))
	plan := make(map[int64]int, len(ordered))
	for pos, id := range ordered {
		if seen[id] {
			mismatch.Duplicate = append(mismatch.Duplicate, id)
			continue
		}
		seen[id] = true
		if !existing[id] {
			mismatch.Foreign = append(mismatch.Foreign, id)
			continue
		}
		plan[id] = pos
	}
	for _, id := range current {
		if !seen[id] {
			mismatch.Missing = append(mismatch.Missing, id)
		}
	}
	if len(mismatch.Missing) > 0 || len(mismatch.Foreign) > 0 || len(mismatch.Duplicate) > 0 {
		return nil, mismatch
	}
	return plan, nil
}

// NextOrderIndex returns the index for a new child appended after indices.
// Gaps left by deletions are kept; only reorder compacts.
func NextOrderIndex(indices []int) int {
	if len(indices) == 0 {
		return 0
	}
	highest := indices[0]
	for _, idx := range indices[1:] {
		if idx > highest {
			highest = idx
		}
	}
	return highest + 1
}

// SortChapters orders chapters by orderIndex, then id.
func SortChapters(chapters []model.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].OrderIndex != chapters[j].OrderIndex {
			return chapters[i].OrderIndex < chapters[j].OrderIndex
		}
		return chapters[i].ID < chapters[j].ID
	})
}

// SortSections orders sections by orderIndex, then id.
func SortSections(sections []model.Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].OrderIndex != sections[j].OrderIndex {
			return sections[i].OrderIndex < sections[j].OrderIndex
		}
		return sections[i].ID < sections[j].ID
	})
}
