// Package teamform keeps the in-progress edit of a single team consistent and
// submits it.
//
// A Store holds the form state and applies shallow merge patches to it; the
// admin and member groups are derived from the member map on demand. A
// Submitter issues at most one remote update at a time and reports the
// outcome to an AlertSink. A Session binds one of each to a create or edit
// flow.
package teamform
