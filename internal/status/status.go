// Package status rotates the bot's cosmetic presence line. It has no data
// dependency on the announcement pipeline.
package status

import (
	"context"
	"math/rand"

	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

// defaultActivities mirrors the tool names the bot pretends to be busy with.
var defaultActivities = []string{"Octave", "LTSpice", "Putty", "MPLAB-X", "grader"}

type Rotator struct {
	client     transport.Client
	activities []string
	log        logx.Logger
	pick       func(n int) int
}

func NewRotator(client transport.Client, activities []string, log logx.Logger) *Rotator {
	if len(activities) == 0 {
		activities = defaultActivities
	}
	return &Rotator{
		client:     client,
		activities: activities,
		log:        log,
		pick:       rand.Intn,
	}
}

// Rotate sets a randomly chosen activity as the presence line. Cosmetic:
// failures are logged at debug and otherwise ignored.
func (r *Rotator) Rotate(ctx context.Context) {
	activity := r.activities[r.pick(len(r.activities))]
	if err := r.client.SetPresence(ctx, activity); err != nil {
		r.log.Debug("presence update failed", logx.Err(err), logx.String("activity", activity))
		return
	}
	r.log.Debug("presence updated", logx.String("activity", activity))
}
