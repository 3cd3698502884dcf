// Package progress computes weekly study progress per course, the set of
// lagging courses, and study suggestions. Every function is pure: callers pass
// the reference time already converted to the user's timezone.
package progress
