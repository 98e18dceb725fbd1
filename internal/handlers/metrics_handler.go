package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

type MetricsHandler struct {
	Query         *services.QueryService
	MemberCol     *mongo.Collection
	AttendanceCol *mongo.Collection
}

// GET /admin/metrics?academy_id=
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var academyID *primitive.ObjectID
	if academyParam := r.URL.Query().Get("academy_id"); academyParam != "" {
		id, err := primitive.ObjectIDFromHex(academyParam)
		if err != nil {
			utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
			return
		}
		academyID = &id
	}

	statusCounts, err := h.Query.StatusCounts(ctx, academyID)
	if err != nil {
		utils.JSONError(w, "Failed to count subscriptions", http.StatusInternalServerError)
		return
	}

	// Trials that have calendar-expired but no attendance event has
	// reconciled yet; the stored estado is still "trial" for these.
	staleTrials, _ := h.Query.StaleTrials(ctx, time.Now())

	activeMembers, _ := h.MemberCol.CountDocuments(ctx, bson.M{"active": true})

	todayStart := time.Now().Truncate(24 * time.Hour)
	attendancesToday, _ := h.AttendanceCol.CountDocuments(ctx, bson.M{
		"date": bson.M{"$gte": todayStart},
	})

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status_counts":     statusCounts,
		"stale_trials":      staleTrials,
		"active_members":    activeMembers,
		"attendances_today": attendancesToday,
	})
}
