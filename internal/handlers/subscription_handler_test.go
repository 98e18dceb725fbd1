package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/handlers"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
)

func TestSubscriptionHandler_CreateSubscription(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	trialCfg := services.TrialConfig{Enabled: true, Policy: services.PolicyPerAcademy, MaxDays: 7, MaxClasses: 1}

	mt.Run("invalid member id", func(mt *mtest.T) {
		handler := handlers.SubscriptionHandler{
			Service: &services.SubscriptionService{
				MemberCol:       mt.Coll,
				SubscriptionCol: mt.Coll,
				Resolver:        &services.PolicyResolver{Config: trialCfg},
			},
		}

		router := mux.NewRouter()
		router.HandleFunc("/subscriptions", handler.CreateSubscription).Methods("POST")

		reqBody := handlers.CreateSubscriptionRequest{
			MemberID:  "not-an-object-id",
			AcademyID: primitive.NewObjectID().Hex(),
			Amount:    5000,
		}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", res.Status)
		}
	})

	mt.Run("member not found", func(mt *mtest.T) {
		handler := handlers.SubscriptionHandler{
			Service: &services.SubscriptionService{
				MemberCol:       mt.Coll,
				SubscriptionCol: mt.Coll,
				Resolver:        &services.PolicyResolver{Config: trialCfg},
			},
		}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch))

		router := mux.NewRouter()
		router.HandleFunc("/subscriptions", handler.CreateSubscription).Methods("POST")

		reqBody := handlers.CreateSubscriptionRequest{
			MemberID:  primitive.NewObjectID().Hex(),
			AcademyID: primitive.NewObjectID().Hex(),
			Amount:    5000,
		}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", res.Status)
		}
	})
}

func TestSubscriptionHandler_Activate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("requester is not the owner", func(mt *mtest.T) {
		handler := handlers.SubscriptionHandler{
			Activation: &services.ActivationService{
				SubscriptionCol: mt.Coll,
				MemberCol:       mt.Coll,
				Trial:           services.TrialConfig{Enabled: true, Policy: services.PolicyPerAcademy},
				Billing:         services.BillingConfig{Currency: "ARS", Frequency: 1, FrequencyUnit: "months"},
			},
		}

		subID := primitive.NewObjectID()
		ownerID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.subscriptions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: subID},
			{Key: "member_id", Value: ownerID},
			{Key: "academy_id", Value: primitive.NewObjectID()},
			{Key: "estado", Value: string(models.StateTrialExpired)},
			{Key: "trial", Value: bson.D{
				{Key: "active", Value: false},
				{Key: "classesAttended", Value: int32(1)},
				{Key: "endDate", Value: time.Now().Add(-time.Hour)},
			}},
		}))

		router := mux.NewRouter()
		router.HandleFunc("/subscriptions/{id}/activate", handler.Activate).Methods("POST")

		reqBody := handlers.ActivateRequest{MemberID: primitive.NewObjectID().Hex()}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+subID.Hex()+"/activate", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusForbidden {
			t.Errorf("expected status Forbidden, got %v", res.Status)
		}
	})

	mt.Run("already active returns conflict", func(mt *mtest.T) {
		handler := handlers.SubscriptionHandler{
			Activation: &services.ActivationService{
				SubscriptionCol: mt.Coll,
				MemberCol:       mt.Coll,
				Trial:           services.TrialConfig{Enabled: true, Policy: services.PolicyPerAcademy},
				Billing:         services.BillingConfig{Currency: "ARS", Frequency: 1, FrequencyUnit: "months"},
			},
		}

		subID := primitive.NewObjectID()
		ownerID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.subscriptions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: subID},
			{Key: "member_id", Value: ownerID},
			{Key: "academy_id", Value: primitive.NewObjectID()},
			{Key: "estado", Value: string(models.StateActive)},
			{Key: "trial", Value: bson.D{{Key: "active", Value: false}}},
		}))

		router := mux.NewRouter()
		router.HandleFunc("/subscriptions/{id}/activate", handler.Activate).Methods("POST")

		reqBody := handlers.ActivateRequest{MemberID: ownerID.Hex()}
		reqBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+subID.Hex()+"/activate", bytes.NewReader(reqBytes))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", res.Status)
		}
	})
}
