package model

// Viewer describes who is looking at course content. The purchase flag is
// looked up once per (viewer, course) pair by the caller.
type Viewer struct {
	UserID       string
	HasPurchased bool
}

// Anonymous reports whether the viewer is unauthenticated.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

// Visibility is the outcome of evaluating a viewer against a section.
type Visibility string

const (
	VisibilityAllowed   Visibility = "allowed"
	VisibilityPaywalled Visibility = "paywalled"
)
