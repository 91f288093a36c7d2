package course

import (
	"strings"

	"courseflow/internal/model"
)

// NewMediaBinding builds a media binding, defaulting the role to "primary".
func NewMediaBinding(mediaID int64, role string) (model.MediaBinding, error) {
	if mediaID <= 0 {
		return model.MediaBinding{}, ErrInvalidBindingState
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = model.DefaultMediaRole
	}
	return model.MediaBinding{MediaID: mediaID, Role: role}, nil
}

// NewQuestionGroupBinding builds a question group binding.
func NewQuestionGroupBinding(groupID int64, opts model.QuizOptions) (model.QuestionGroupBinding, error) {
	if groupID <= 0 {
		return model.QuestionGroupBinding{}, ErrInvalidBindingState
	}
	return model.QuestionGroupBinding{GroupID: groupID, Options: opts}, nil
}

// BindingFromRequest turns a loosely typed request with two optional ids
// into a binding. Naming both kinds or neither is rejected.
func BindingFromRequest(mediaID, groupID *int64, role string, opts model.QuizOptions) (model.ResourceBinding, error) {
	switch {
	case mediaID != nil && groupID != nil:
		return nil, ErrInvalidBindingState
	case mediaID != nil:
		return mediaBinding(*mediaID, role)
	case groupID != nil:
		return questionGroupBinding(*groupID, opts)
	default:
		return nil, ErrInvalidBindingState
	}
}

// mediaBinding and questionGroupBinding keep a failed constructor from
// yielding a non-nil interface.
func mediaBinding(id int64, role string) (model.ResourceBinding, error) {
	b, err := NewMediaBinding(id, role)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func questionGroupBinding(id int64, opts model.QuizOptions) (model.ResourceBinding, error) {
	b, err := NewQuestionGroupBinding(id, opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Bind replaces whatever the section carried with b.
func Bind(s *model.Section, b model.ResourceBinding) error {
	if b == nil || b.ResourceID() <= 0 {
		return ErrInvalidBindingState
	}
	if mb, ok := b.(model.MediaBinding); ok && mb.Role == "" {
		mb.Role = model.DefaultMediaRole
		b = mb
	}
	Unbind(s)
	s.Binding = b
	return nil
}

// Unbind clears the section's resource.
func Unbind(s *model.Section) {
	s.Binding = nil
}

// BindingColumns is the persisted shape of a binding: a discriminator and
// two nullable foreign keys plus the per-kind options.
type BindingColumns struct {
	Kind            model.ResourceKind
	MediaID         *int64
	MediaRole       string
	QuestionGroupID *int64
	Options         model.QuizOptions
}

// EncodeBinding flattens a binding for storage.
func EncodeBinding(b model.ResourceBinding) BindingColumns {
	switch v := b.(type) {
	case model.MediaBinding:
		id := v.MediaID
		return BindingColumns{Kind: model.ResourceKindMedia, MediaID: &id, MediaRole: v.Role}
	case model.QuestionGroupBinding:
		id := v.GroupID
		return BindingColumns{Kind: model.ResourceKindQuestionGroup, QuestionGroupID: &id, Options: v.Options}
	default:
		return BindingColumns{Kind: model.ResourceKindNone}
	}
}

// DecodeBinding rebuilds a binding from stored columns, rejecting rows whose
// ids disagree with the discriminator.
func DecodeBinding(c BindingColumns) (model.ResourceBinding, error) {
	switch c.Kind {
	case model.ResourceKindNone, "":
		if c.MediaID != nil || c.QuestionGroupID != nil {
			return nil, ErrInvalidBindingState
		}
		return nil, nil
	case model.ResourceKindMedia:
		if c.MediaID == nil || c.QuestionGroupID != nil {
			return nil, ErrInvalidBindingState
		}
		return mediaBinding(*c.MediaID, c.MediaRole)
	case model.ResourceKindQuestionGroup:
		if c.QuestionGroupID == nil || c.MediaID != nil {
			return nil, ErrInvalidBindingState
		}
		return questionGroupBinding(*c.QuestionGroupID, c.Options)
	default:
		return nil, ErrInvalidBindingState
	}
}
