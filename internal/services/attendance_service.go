package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
)

// AttendanceService reconciles attendance events against the member's
// in-force subscription: snapshots the trial flag onto the attendance
// record, advances the trial counter and evaluates expiration.
type AttendanceService struct {
	SubscriptionCol *mongo.Collection
	AttendanceCol   *mongo.Collection
	Trial           TrialConfig
}

type ReconcileResult struct {
	Attendance       models.Attendance   `json:"attendance"`
	Subscription     models.Subscription `json:"subscription"`
	TrialJustExpired bool                `json:"trial_just_expired"`
}

const reconcileRetries = 3

func (s *AttendanceService) RecordAttendance(ctx context.Context, memberID, academyID, groupID primitive.ObjectID, registeredBy string, at time.Time) (*ReconcileResult, error) {
	if at.IsZero() {
		at = time.Now()
	}

	var sub models.Subscription
	if err := s.SubscriptionCol.FindOne(ctx, inForceFilter(memberID, academyID)).Decode(&sub); err != nil {
		return nil, ErrNotFound
	}

	attendance := models.Attendance{
		ID:             primitive.NewObjectID(),
		MemberID:       memberID,
		AcademyID:      academyID,
		GroupID:        groupID,
		SubscriptionID: sub.ID,
		Date:           at,
		WasTrialClass:  sub.Trial.Active, // snapshot, never recomputed
		RegisteredBy:   registeredBy,
	}
	if _, err := s.AttendanceCol.InsertOne(ctx, attendance); err != nil {
		return nil, err
	}

	result := &ReconcileResult{Attendance: attendance, Subscription: sub}
	if !sub.Trial.Active {
		// Paid class, no trial bookkeeping.
		return result, nil
	}

	// The counter increment and the expiration flip are applied in a single
	// version-guarded update so a concurrent attendance event can never
	// split them or double-apply the increment.
	// Expiration reads the wall clock, not the attendance date: a backdated
	// event must not revive a calendar window that has already closed.
	now := time.Now()
	for attempt := 0; attempt < reconcileRetries; attempt++ {
		projected := sub
		projected.Trial.ClassesAttended++
		expired := projected.TrialExpired(now, s.Trial.MaxClasses)

		update := bson.M{
			"$inc": bson.M{"trial.classesAttended": 1, "version": 1},
			"$set": bson.M{"updated_at": time.Now()},
		}
		if expired {
			update["$set"] = bson.M{
				"estado":       models.StateTrialExpired,
				"trial.active": false,
				"updated_at":   time.Now(),
			}
		}

		var updated models.Subscription
		err := s.SubscriptionCol.FindOneAndUpdate(ctx,
			bson.M{"_id": sub.ID, "version": sub.Version},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == nil {
			result.Subscription = updated
			result.TrialJustExpired = expired
			return result, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		// Version moved under us; re-read and retry against the new state.
		if err := s.SubscriptionCol.FindOne(ctx, bson.M{"_id": sub.ID}).Decode(&sub); err != nil {
			return nil, ErrNotFound
		}
		if !sub.Trial.Active {
			// A concurrent event already expired the trial.
			result.Subscription = sub
			return result, nil
		}
	}
	return nil, errors.New("attendance reconciliation lost the version race repeatedly")
}

func (s *AttendanceService) History(ctx context.Context, subscriptionID primitive.ObjectID) ([]models.Attendance, error) {
	cursor, err := s.AttendanceCol.Find(ctx,
		bson.M{"subscription_id": subscriptionID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Attendance
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
