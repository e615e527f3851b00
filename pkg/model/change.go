package model

// ChangeNotice describes one field-level change to the session model.
// Delivered best-effort on the optional subscription channel (see
// pkg/utils/broadcast); the core never requires a subscriber to be
// present or to keep up.
type ChangeNotice struct {
	Field    string
	CarIndex int // -1 when the change is not driver-scoped
}
