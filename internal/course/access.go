package course

import "courseflow/internal/model"

// EffectiveAccess resolves the access type that applies to a section: its
// own override when set, otherwise the chapter's. A chapter without an
// access type is treated as paid only.
func EffectiveAccess(ch model.Chapter, sec model.Section) model.AccessType {
	if sec.AccessType != model.AccessTypeInherit {
		return sec.AccessType
	}
	if ch.AccessType == model.AccessTypeInherit {
		return model.AccessTypePaidOnly
	}
	return ch.AccessType
}

// IsPrivileged reports whether the viewer authored the course or is its
// assigned reviewer. Privileged viewers bypass payment entirely.
func IsPrivileged(v model.Viewer, c model.Course) bool {
	if v.Anonymous() {
		return false
	}
	return v.UserID == c.CreatorID || (c.ReviewerID != "" && v.UserID == c.ReviewerID)
}

// CanView decides whether a section renders for the viewer or shows a paywall.
func CanView(v model.Viewer, c model.Course, ch model.Chapter, sec model.Section) model.Visibility {
	if IsPrivileged(v, c) {
		return model.VisibilityAllowed
	}
	if c.PaymentType == model.PaymentTypeFree {
		return model.VisibilityAllowed
	}
	if EffectiveAccess(ch, sec) == model.AccessTypeFreeTrial {
		return model.VisibilityAllowed
	}
	if !v.Anonymous() && v.HasPurchased {
		return model.VisibilityAllowed
	}
	return model.VisibilityPaywalled
}

// FilterStructure evaluates every section of s for the viewer. Paywalled
// sections keep their outline fields but lose their binding.
func FilterStructure(v model.Viewer, s model.CourseStructure) model.VisibleStructure {
	out := model.VisibleStructure{
		Course:   s.Course,
		Chapters: make([]model.VisibleChapter, 0, len(s.Chapters)),
	}
	for _, cs := range s.Chapters {
		vc := model.VisibleChapter{
			Chapter:  cs.Chapter,
			Sections: make([]model.VisibleSection, 0, len(cs.Sections)),
		}
		for _, sec := range cs.Sections {
			visibility := CanView(v, s.Course, cs.Chapter, sec)
			if visibility == model.VisibilityPaywalled {
				Unbind(&sec)
			}
			vc.Sections = append(vc.Sections, model.VisibleSection{
				Section:    sec,
				Access:     EffectiveAccess(cs.Chapter, sec),
				Visibility: visibility,
			})
		}
		out.Chapters = append(out.Chapters, vc)
	}
	return out
}
