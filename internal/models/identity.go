package models

// Identity is the authenticated caller derived from a verified token plus a
// fresh user lookup. It is rebuilt on every request and never persisted.
//
// ID and Role come from the token claims; TeacherID is always re-read from
// the store so a reassignment takes effect on the next request.
type Identity struct {
	ID        uint64
	Role      UserRole
	TeacherID *uint64
}
