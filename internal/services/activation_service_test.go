package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
)

func TestActivationService_Activate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	memberID := primitive.NewObjectID()
	academyID := primitive.NewObjectID()
	trialCfg := services.TrialConfig{Enabled: true, Policy: services.PolicyPerAcademy, MaxDays: 7, MaxClasses: 1}
	billingCfg := services.BillingConfig{Currency: "ARS", Frequency: 1, FrequencyUnit: "months"}

	newService := func(mt *mtest.T) *services.ActivationService {
		return &services.ActivationService{
			SubscriptionCol: mt.Coll,
			MemberCol:       mt.Coll,
			Trial:           trialCfg,
			Billing:         billingCfg,
		}
	}

	mt.Run("subscription not found", func(mt *mtest.T) {
		svc := newService(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch))

		_, err := svc.Activate(context.Background(), primitive.NewObjectID(), memberID, nil)
		if !errors.Is(err, services.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("requester does not own the subscription", func(mt *mtest.T) {
		svc := newService(mt)
		subID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch,
			subscriptionDoc(subID, memberID, academyID, models.StateTrialExpired, false, 1, time.Now())))

		_, err := svc.Activate(context.Background(), subID, primitive.NewObjectID(), nil)
		if !errors.Is(err, services.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	mt.Run("already active cannot be re-activated", func(mt *mtest.T) {
		svc := newService(mt)
		subID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch,
			subscriptionDoc(subID, memberID, academyID, models.StateActive, false, 0, time.Now())))

		_, err := svc.Activate(context.Background(), subID, memberID, nil)
		if !errors.Is(err, services.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	mt.Run("cancelled cannot be re-activated", func(mt *mtest.T) {
		svc := newService(mt)
		subID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch,
			subscriptionDoc(subID, memberID, academyID, models.StateCancelled, false, 0, time.Now())))

		_, err := svc.Activate(context.Background(), subID, memberID, nil)
		if !errors.Is(err, services.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	mt.Run("expired trial activates and burns trial usage", func(mt *mtest.T) {
		svc := newService(mt)
		subID := primitive.NewObjectID()

		activatedDoc := bson.D{
			{Key: "_id", Value: subID},
			{Key: "member_id", Value: memberID},
			{Key: "academy_id", Value: academyID},
			{Key: "estado", Value: string(models.StateActive)},
			{Key: "version", Value: int64(1)},
			{Key: "trial", Value: bson.D{
				{Key: "active", Value: false},
				{Key: "classesAttended", Value: int32(1)},
				{Key: "wasConsumed", Value: true},
			}},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch,
				subscriptionDoc(subID, memberID, academyID, models.StateTrialExpired, false, 1, time.Now())),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: activatedDoc}), // subscription update
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),                // member trial-usage writeback
		)

		sub, err := svc.Activate(context.Background(), subID, memberID, &models.PaymentGateway{PreapprovalID: "pa_123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sub.Estado != models.StateActive {
			t.Errorf("expected activa, got %s", sub.Estado)
		}
		if !sub.Trial.WasConsumed {
			t.Error("activation must mark the trial consumed")
		}

		u := memberWritebackUpdate(mt)
		added, ok := u.Lookup("$addToSet", "trialUsage.academies").ObjectIDOK()
		if !ok {
			mt.Fatalf("per-academy writeback must $addToSet trialUsage.academies, got %v", u)
		}
		if added != academyID {
			mt.Errorf("writeback recorded academy %s, want %s", added.Hex(), academyID.Hex())
		}
		if set, err := u.LookupErr("$set"); err == nil {
			if _, found := set.Document().Lookup("trialUsage.used").BooleanOK(); found {
				mt.Error("per-academy writeback must not touch the global trialUsage.used flag")
			}
		}
	})

	mt.Run("pendiente activates under the global policy", func(mt *mtest.T) {
		svc := &services.ActivationService{
			SubscriptionCol: mt.Coll,
			MemberCol:       mt.Coll,
			Trial:           services.TrialConfig{Enabled: true, Policy: services.PolicyGlobal, MaxDays: 7, MaxClasses: 1},
			Billing:         billingCfg,
		}
		subID := primitive.NewObjectID()

		activatedDoc := bson.D{
			{Key: "_id", Value: subID},
			{Key: "member_id", Value: memberID},
			{Key: "academy_id", Value: academyID},
			{Key: "estado", Value: string(models.StateActive)},
			{Key: "version", Value: int64(1)},
			{Key: "trial", Value: bson.D{
				{Key: "active", Value: false},
				{Key: "classesAttended", Value: int32(0)},
				{Key: "wasConsumed", Value: true},
			}},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.subscriptions", mtest.FirstBatch,
				subscriptionDoc(subID, memberID, academyID, models.StatePending, false, 0, time.Now())),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: activatedDoc}), // subscription update
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),                // member trial-usage writeback
		)

		sub, err := svc.Activate(context.Background(), subID, memberID, &models.PaymentGateway{PreapprovalID: "pa_456"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sub.Estado != models.StateActive {
			t.Errorf("expected activa, got %s", sub.Estado)
		}

		u := memberWritebackUpdate(mt)
		used, ok := u.Lookup("$set", "trialUsage.used").BooleanOK()
		if !ok || !used {
			mt.Fatalf("global writeback must $set trialUsage.used = true, got %v", u)
		}
		if _, err := u.LookupErr("$addToSet"); err == nil {
			mt.Error("global writeback must not touch the per-academy list")
		}
	})
}

// memberWritebackUpdate replays the captured command stream and returns the
// update document of the first "update" command, which in these scenarios is
// the member trial-usage writeback.
func memberWritebackUpdate(mt *mtest.T) bson.Raw {
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName != "update" {
			continue
		}
		vals, err := evt.Command.Lookup("updates").Array().Values()
		if err != nil || len(vals) == 0 {
			mt.Fatalf("malformed update command: %v", err)
		}
		return vals[0].Document().Lookup("u").Document()
	}
	mt.Fatal("no member update command captured")
	return nil
}

func TestRollForwardUnits(t *testing.T) {
	// Billing roll-forward is the only date arithmetic outside the trial
	// window; pin the unit handling down.
	from := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		unit      string
		frequency int
		want      time.Time
	}{
		{"months", 1, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{"days", 10, time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC)},
		{"weeks", 2, time.Date(2026, 1, 29, 12, 0, 0, 0, time.UTC)},
		{"years", 1, time.Date(2027, 1, 15, 12, 0, 0, 0, time.UTC)},
		{"", 3, time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)}, // unknown unit falls back to months
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got := services.RollForward(from, tt.frequency, tt.unit)
			if !got.Equal(tt.want) {
				t.Errorf("RollForward(%d %s) = %v, want %v", tt.frequency, tt.unit, got, tt.want)
			}
		})
	}
}
