package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
)

// ActivationService moves a subscription out of pendiente/trial_expirado
// into activa once the external gateway has been set up.
type ActivationService struct {
	SubscriptionCol *mongo.Collection
	MemberCol       *mongo.Collection
	Trial           TrialConfig
	Billing         BillingConfig
}

func (s *ActivationService) Activate(ctx context.Context, subscriptionID, requesterID primitive.ObjectID, gateway *models.PaymentGateway) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.SubscriptionCol.FindOne(ctx, bson.M{"_id": subscriptionID}).Decode(&sub); err != nil {
		return nil, ErrNotFound
	}

	if sub.MemberID != requesterID {
		return nil, ErrForbidden
	}

	if sub.Estado != models.StateTrialExpired && sub.Estado != models.StatePending {
		return nil, ErrInvalidState
	}

	now := time.Now()
	nextDue := RollForward(now, s.Billing.Frequency, s.Billing.FrequencyUnit)

	gw := models.PaymentGateway{Status: "pending"}
	if gateway != nil {
		// Stored verbatim; the gateway's own callback confirms it later.
		gw = *gateway
		if gw.Status == "" {
			gw.Status = "pending"
		}
	}

	set := bson.M{
		"estado":               models.StateActive,
		"paymentGateway":       gw,
		"billing.lastPaidDate": now,
		"billing.nextDueDate":  nextDue,
		"updated_at":           now,
	}
	if !sub.Trial.WasConsumed {
		set["trial.wasConsumed"] = true
		set["trial.active"] = false
	}

	var updated models.Subscription
	err := s.SubscriptionCol.FindOneAndUpdate(ctx,
		bson.M{"_id": sub.ID},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, err
	}

	// This is the only place the member's trial-usage record is written.
	// The no-trial creation path deliberately never reaches it.
	if !sub.Trial.WasConsumed {
		if err := s.recordTrialUsage(ctx, sub.MemberID, sub.AcademyID); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

func (s *ActivationService) recordTrialUsage(ctx context.Context, memberID, academyID primitive.ObjectID) error {
	// Only the field the active policy consults is written: the global flag
	// and the per-academy list never move together.
	var update bson.M
	if s.Trial.Policy == PolicyPerAcademy {
		update = bson.M{
			"$addToSet": bson.M{"trialUsage.academies": academyID},
			"$set":      bson.M{"updated_at": time.Now()},
		}
	} else {
		update = bson.M{"$set": bson.M{"trialUsage.used": true, "updated_at": time.Now()}}
	}
	_, err := s.MemberCol.UpdateByID(ctx, memberID, update)
	return err
}

// RollForward advances a billing anchor by one billing period.
func RollForward(from time.Time, frequency int, unit string) time.Time {
	switch unit {
	case "days":
		return from.AddDate(0, 0, frequency)
	case "weeks":
		return from.AddDate(0, 0, 7*frequency)
	case "years":
		return from.AddDate(frequency, 0, 0)
	default: // months
		return from.AddDate(0, frequency, 0)
	}
}
