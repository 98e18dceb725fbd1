package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/constants"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

type AttendanceHandler struct {
	Service     *services.AttendanceService
	AuditLogger utils.Logger
}

type RecordAttendanceRequest struct {
	MemberID  string `json:"member_id"`
	AcademyID string `json:"academy_id"`
	GroupID   string `json:"group_id"`
	Date      string `json:"date,omitempty"` // RFC3339, defaults to now
}

// POST /attendance
func (h *AttendanceHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req RecordAttendanceRequest
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

	var groupID primitive.ObjectID
	if req.GroupID != "" {
		groupID, err = primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			utils.JSONError(w, "Invalid group ID", http.StatusBadRequest)
			return
		}
	}

	var at time.Time
	if req.Date != "" {
		at, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			utils.JSONError(w, "Invalid date", http.StatusBadRequest)
			return
		}
	}

	registeredBy := performedBy(r)
	result, err := h.Service.RecordAttendance(r.Context(), memberID, academyID, groupID, registeredBy, at)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(context.Background(), models.AttendanceEntity, constants.RecordAttendance, registeredBy, result.Attendance)

	if result.TrialJustExpired {
		// Notification fan-out is the caller layer's job; the engine only
		// reports the flag.
		utils.AppendToNotifyLog(r.Context(), req.MemberID, result.Subscription.ID.Hex())
		h.AuditLogger.Log(context.Background(), models.SubscriptionEntity, constants.TrialExpire, registeredBy, result.Subscription.ID.Hex())
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// GET /attendance?subscription_id=
func (h *AttendanceHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	subID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("subscription_id"))
	if err != nil {
		utils.JSONError(w, "Invalid subscription ID", http.StatusBadRequest)
		return
	}

	history, err := h.Service.History(r.Context(), subID)
	if err != nil {
		utils.JSONError(w, "Failed to fetch attendance", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(history)
}
