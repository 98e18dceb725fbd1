package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
)

// SubscriptionService creates subscriptions in one of two shapes: trial or
// immediate-active awaiting payment setup.
type SubscriptionService struct {
	MemberCol       *mongo.Collection
	SubscriptionCol *mongo.Collection
	Resolver        *PolicyResolver
	Billing         BillingConfig
}

// CreationResult distinguishes the two creation shapes at the call
// boundary. When RequiresPaymentSetup is true the subscription is already
// stored as "activa" but is not usable until payment is configured; the
// flag, not the state, is the authoritative signal.
type CreationResult struct {
	Subscription         models.Subscription `json:"subscription"`
	TrialGranted         bool                `json:"trial_granted"`
	RequiresPaymentSetup bool                `json:"requires_payment_setup"`
}

func inForceFilter(memberID, academyID primitive.ObjectID) bson.M {
	states := make([]string, 0, len(models.InForceStates))
	for _, s := range models.InForceStates {
		states = append(states, string(s))
	}
	return bson.M{
		"member_id":  memberID,
		"academy_id": academyID,
		"estado":     bson.M{"$in": states},
	}
}

func (s *SubscriptionService) Create(ctx context.Context, memberID, academyID primitive.ObjectID, groupID *primitive.ObjectID, amount float64) (*CreationResult, error) {
	var member models.Member
	if err := s.MemberCol.FindOne(ctx, bson.M{"_id": memberID}).Decode(&member); err != nil {
		return nil, ErrNotFound
	}

	// One in-force subscription per member per academy. There is no unique
	// index backing this; the check runs here, before the insert.
	count, err := s.SubscriptionCol.CountDocuments(ctx, inForceFilter(memberID, academyID))
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	eligibility := s.Resolver.ResolveEligibility(&member, academyID)

	now := time.Now()
	sub := models.Subscription{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		AcademyID: academyID,
		GroupID:   groupID,
		Billing: models.Billing{
			Amount:        amount,
			Currency:      s.Billing.Currency,
			Frequency:     s.Billing.Frequency,
			FrequencyUnit: s.Billing.FrequencyUnit,
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := CreationResult{}
	if eligibility.Eligible {
		sub.Estado = models.StateTrial
		sub.Trial = models.Trial{
			Active:          true,
			StartDate:       now,
			EndDate:         now.AddDate(0, 0, s.Resolver.Config.MaxDays),
			ClassesAttended: 0,
			WasConsumed:     false,
		}
		result.TrialGranted = true
	} else {
		// No trial: stored as activa right away, payment setup still owed.
		// The member's trial-usage record is not touched on this path.
		sub.Estado = models.StateActive
		sub.Trial = models.Trial{
			Active:      false,
			WasConsumed: eligibility.AlreadyConsumed,
		}
		result.RequiresPaymentSetup = true
	}

	if _, err := s.SubscriptionCol.InsertOne(ctx, sub); err != nil {
		return nil, err
	}

	result.Subscription = sub
	return &result, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.SubscriptionCol.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, ErrNotFound
	}
	return &sub, nil
}
