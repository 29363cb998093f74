package resumes

// CanView decides read access from the resume's visibility and the caller
// identity. Public resumes are readable by anyone, including anonymous
// callers; private resumes only by their owner.
//
// Callers that are denied must be answered with ErrNotFound, never a
// forbidden-style error: the existence of a private resume is not observable
// to non-owners.
func CanView(r Resume, callerID string) bool {
	if r.Visibility == VisibilityPublic {
		return true
	}
	return callerID != "" && callerID == r.UserID
}
