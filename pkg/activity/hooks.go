// Package activity carries audit events out of the badge module: badge
// table resolutions and directory changes made through commands.
package activity

import (
	"context"
	"time"
)

// Verbs emitted by the module.
const (
	VerbTableResolved   = "badges.table.resolved"
	VerbGroupDefined    = "badges.group.defined"
	VerbUserCreated     = "badges.user.created"
	VerbGroupAssigned   = "badges.group.assigned"
	VerbGroupRevoked    = "badges.group.revoked"
	VerbFileRegistered  = "badges.file.registered"
	ObjectBadgeTable    = "badge_table"
	ObjectGroup         = "group"
	ObjectUser          = "user"
	ObjectMembership    = "group_membership"
	ObjectFile          = "file"
	DefaultActivityChan = "groupbadges"
)

// Event captures the common fields consumers need to record activity/audit events.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook observers receive activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event)
}

// Hooks provides a convenient fan-out collection.
type Hooks []Hook

// Notify delivers the event to every hook, skipping nil entries.
func (h Hooks) Notify(ctx context.Context, evt Event) {
	if len(h) == 0 {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if evt.Channel == "" {
		evt.Channel = DefaultActivityChan
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(ctx, evt)
	}
}

// Nop is a no-op hook useful for defaults.
type Nop struct{}

func (Nop) Notify(_ context.Context, _ Event) {}

// CloneMetadata makes a shallow copy so hooks can mutate without affecting callers.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
