package service

// Broadcaster pushes case lifecycle events to connected reviewers
// (avoids an import cycle with the ws package)
type Broadcaster interface {
	BroadcastToReviewers(instrumentID string, msgType string, payload interface{})
}
