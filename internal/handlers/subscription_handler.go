package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/constants"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

type SubscriptionHandler struct {
	Service     *services.SubscriptionService
	Activation  *services.ActivationService
	Query       *services.QueryService
	Resolver    *services.PolicyResolver
	MemberCol   *mongo.Collection
	AuditLogger utils.Logger
}

func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrAlreadySubscribed):
		utils.JSONError(w, err.Error(), http.StatusConflict)
	default:
		utils.JSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

type CreateSubscriptionRequest struct {
	MemberID  string  `json:"member_id"`
	AcademyID string  `json:"academy_id"`
	GroupID   string  `json:"group_id,omitempty"`
	Amount    float64 `json:"amount"`
}

// POST /subscriptions
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid input", http.StatusBadRequest)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}
	academyID, err := primitive.ObjectIDFromHex(req.AcademyID)
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
		return
	}

	var groupID *primitive.ObjectID
	if req.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			utils.JSONError(w, "Invalid group ID", http.StatusBadRequest)
			return
		}
		groupID = &gid
	}

	result, err := h.Service.Create(r.Context(), memberID, academyID, groupID, req.Amount)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(context.Background(), models.SubscriptionEntity, constants.Create, performedBy(r), result.Subscription)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// GET /subscriptions/{id}
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid subscription ID", http.StatusBadRequest)
		return
	}

	sub, err := h.Service.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(sub)
}

// GET /subscriptions?academy_id=&status=
func (h *SubscriptionHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	academyID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("academy_id"))
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidSubscriptionState(status) {
		utils.JSONError(w, "Invalid status", http.StatusBadRequest)
		return
	}

	entries, err := h.Query.Roster(r.Context(), academyID, status)
	if err != nil {
		utils.JSONError(w, "Failed to fetch roster", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(entries)
}

type ActivateRequest struct {
	MemberID string                 `json:"member_id"`
	Gateway  *models.PaymentGateway `json:"gateway,omitempty"`
}

// POST /subscriptions/{id}/activate
func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	subID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid subscription ID", http.StatusBadRequest)
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid input", http.StatusBadRequest)
		return
	}

	requesterID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	sub, err := h.Activation.Activate(r.Context(), subID, requesterID, req.Gateway)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(context.Background(), models.SubscriptionEntity, constants.Activate, performedBy(r), sub)

	json.NewEncoder(w).Encode(sub)
}

// GET /members/{id}/eligibility?academy_id=
func (h *SubscriptionHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	memberID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}
	academyID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("academy_id"))
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
		return
	}

	var member models.Member
	if err := h.MemberCol.FindOne(r.Context(), bson.M{"_id": memberID}).Decode(&member); err != nil {
		utils.JSONError(w, "Member not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(h.Resolver.ResolveEligibility(&member, academyID))
}
