package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
)

// QueryService is the read side consumed by the admin UI: rosters and
// per-status counts. Reads are not isolated from concurrent writes, so
// counts may be transiently stale.
type QueryService struct {
	SubscriptionCol *mongo.Collection
	Trial           TrialConfig
}

// RosterEntry decorates a stored subscription with the derived expiry flag,
// since the stored estado only changes during attendance reconciliation.
type RosterEntry struct {
	models.Subscription
	TrialCurrentlyExpired bool `json:"trial_currently_expired"`
}

func (q *QueryService) Roster(ctx context.Context, academyID primitive.ObjectID, status string) ([]RosterEntry, error) {
	filter := bson.M{"academy_id": academyID}
	if status != "" {
		filter["estado"] = status
	}

	cursor, err := q.SubscriptionCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]RosterEntry, 0, len(subs))
	for _, sub := range subs {
		entries = append(entries, RosterEntry{
			Subscription:          sub,
			TrialCurrentlyExpired: sub.Trial.Active && sub.TrialExpired(now, q.Trial.MaxClasses),
		})
	}
	return entries, nil
}

func (q *QueryService) StatusCounts(ctx context.Context, academyID *primitive.ObjectID) (map[string]int64, error) {
	counts := make(map[string]int64, len(models.ValidSubscriptionStates))
	for state := range models.ValidSubscriptionStates {
		filter := bson.M{"estado": state}
		if academyID != nil {
			filter["academy_id"] = *academyID
		}
		n, err := q.SubscriptionCol.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, nil
}

// StaleTrials counts subscriptions still stored as "trial" whose end date
// has passed but which no attendance event has reconciled yet.
func (q *QueryService) StaleTrials(ctx context.Context, now time.Time) (int64, error) {
	return q.SubscriptionCol.CountDocuments(ctx, bson.M{
		"estado":        models.StateTrial,
		"trial.endDate": bson.M{"$lt": now},
	})
}

// NewQueryService keeps main wiring terse.
func NewQueryService(col *mongo.Collection, trial TrialConfig) *QueryService {
	return &QueryService{SubscriptionCol: col, Trial: trial}
}
