package course

import "courseflow/internal/model"

// Operation describes a category of course operation for the mutation guard.
type Operation int

const (
	// OpUnspecified represents an invalid operation.
	OpUnspecified Operation = iota
	// OpRead represents any read of the course or its structure.
	OpRead
	// OpEditMetadata represents title, description and pricing edits.
	OpEditMetadata
	// OpUploadCover represents requesting a cover upload URL.
	OpUploadCover
	OpCreateChapter
	OpUpdateChapter
	OpDeleteChapter
	OpReorderChapters
	OpCreateSection
	OpUpdateSection
	OpDeleteSection
	OpReorderSections
	// OpBindResource covers binding, rebinding and unbinding a section resource.
	OpBindResource
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "READ"
	case OpEditMetadata:
		return "EDIT_METADATA"
	case OpUploadCover:
		return "UPLOAD_COVER"
	case OpCreateChapter:
		return "CREATE_CHAPTER"
	case OpUpdateChapter:
		return "UPDATE_CHAPTER"
	case OpDeleteChapter:
		return "DELETE_CHAPTER"
	case OpReorderChapters:
		return "REORDER_CHAPTERS"
	case OpCreateSection:
		return "CREATE_SECTION"
	case OpUpdateSection:
		return "UPDATE_SECTION"
	case OpDeleteSection:
		return "DELETE_SECTION"
	case OpReorderSections:
		return "REORDER_SECTIONS"
	case OpBindResource:
		return "BIND_RESOURCE"
	default:
		return "UNSPECIFIED"
	}
}

// IsMutable reports whether authors may change the course in status.
func IsMutable(status model.CourseStatus) bool {
	return status == model.CourseStatusDraft || status == model.CourseStatusRejected
}

// ValidateOperation ensures the course status allows the requested operation.
// Reads are always allowed; every mutation requires draft or rejected.
func ValidateOperation(status model.CourseStatus, op Operation) error {
	switch {
	case op == OpRead:
		return nil
	case op <= OpUnspecified || op > OpBindResource:
		return &CourseLockedError{Status: status, Operation: op}
	case IsMutable(status):
		return nil
	default:
		return &CourseLockedError{Status: status, Operation: op}
	}
}
