// Package course holds the rules of a course's content structure: the
// publication lifecycle, the mutation guard tied to it, section resource
// bindings, child ordering and the paywall decision. Everything here is
// pure; persistence and resource lookups belong to the service layer.
package course
