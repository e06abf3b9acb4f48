package usersink

import (
	"context"
	"time"

	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events into go-users ActivitySink records.
type Hook struct {
	Sink types.ActivitySink
}

var _ activity.Hook = Hook{}

// Notify maps the activity event into a types.ActivityRecord and forwards it.
func (h Hook) Notify(ctx context.Context, evt activity.Event) {
	if h.Sink == nil {
		return
	}
	record := types.ActivityRecord{
		ID:         uuid.New(),
		UserID:     parseUUID(evt.UserID),
		ActorID:    parseUUID(evt.ActorID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       activity.CloneMetadata(evt.Metadata),
		OccurredAt: evt.OccurredAt,
	}
	if record.Data == nil {
		record.Data = make(map[string]any)
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}
	_ = h.Sink.Log(ctx, record)
}

func parseUUID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
