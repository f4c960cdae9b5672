package model

import (
	"strings"
	"time"
)

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Ref        string           // Git ref the event targets (e.g. refs/heads/master)
	Repository string           // Repository full name (owner/repo)
	Sender     string           // Sender username
	CommitSHA  string           // Head commit SHA after the push
	Deleted    bool             // True when the push deleted the ref
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// IsSupportedEvent checks if the event can start a release run. Only pushes
// that still have a live ref qualify; branch deletions are ignored.
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypePush:
		return !e.Deleted
	default:
		return false
	}
}

// Branch returns the branch name for branch pushes, or "" for other refs
// (tags, etc.)
func (e *WebhookEvent) Branch() string {
	const prefix = "refs/heads/"
	if !strings.HasPrefix(e.Ref, prefix) {
		return ""
	}
	return strings.TrimPrefix(e.Ref, prefix)
}

// TargetsBranch reports whether the event is a push to the given branch
func (e *WebhookEvent) TargetsBranch(branch string) bool {
	return e.Branch() != "" && e.Branch() == branch
}
