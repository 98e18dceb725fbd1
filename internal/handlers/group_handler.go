package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/constants"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

type GroupHandler struct {
	Collection  *mongo.Collection
	AcademyCol  *mongo.Collection
	AuditLogger utils.Logger
}

// POST /groups
func (h *GroupHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var academy models.Academy
	if err := h.AcademyCol.FindOne(ctx, bson.M{"_id": group.AcademyID}).Decode(&academy); err != nil {
		utils.JSONError(w, "Academy not found", http.StatusNotFound)
		return
	}

	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	_, err := h.Collection.InsertOne(ctx, group)
	if err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.GroupEntity, constants.Create, performedBy(r), group)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(group)
}

// GET /groups?academy_id=
func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if academyParam := r.URL.Query().Get("academy_id"); academyParam != "" {
		academyID, err := primitive.ObjectIDFromHex(academyParam)
		if err != nil {
			utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
			return
		}
		filter["academy_id"] = academyID
	}

	cursor, err := h.Collection.Find(ctx, filter)
	if err != nil {
		utils.JSONError(w, "Failed to fetch groups", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err = cursor.All(ctx, &groups); err != nil {
		utils.JSONError(w, "Error decoding groups", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(groups)
}

// PUT /groups/{id}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid group ID", http.StatusBadRequest)
		return
	}

	var updateData map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		utils.JSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	updateData["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := h.Collection.UpdateByID(ctx, id, bson.M{"$set": updateData})
	if err != nil {
		utils.JSONError(w, "Update failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		utils.JSONError(w, "Group not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.GroupEntity, constants.Update, performedBy(r), updateData)

	json.NewEncoder(w).Encode(map[string]string{"message": "Group updated"})
}

// DELETE /groups/{id}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid group ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := h.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.JSONError(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		utils.JSONError(w, "Group not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.GroupEntity, constants.Delete, performedBy(r), id.Hex())

	w.WriteHeader(http.StatusNoContent)
}
