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

type AcademyHandler struct {
	Collection  *mongo.Collection
	AuditLogger utils.Logger
}

func NewAcademyHandler(coll *mongo.Collection, logger utils.Logger) *AcademyHandler {
	return &AcademyHandler{Collection: coll, AuditLogger: logger}
}

// POST /academies
func (h *AcademyHandler) AddAcademy(w http.ResponseWriter, r *http.Request) {
	var academy models.Academy
	if err := json.NewDecoder(r.Body).Decode(&academy); err != nil {
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if academy.Name == "" {
		utils.JSONError(w, "Academy name is required", http.StatusBadRequest)
		return
	}

	academy.ID = primitive.NewObjectID()
	academy.Active = true
	academy.CreatedAt = time.Now()
	academy.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.Collection.InsertOne(ctx, academy)
	if err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.AcademyEntity, constants.Create, performedBy(r), academy)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(academy)
}

// GET /academies
func (h *AcademyHandler) GetAcademies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := h.Collection.Find(ctx, bson.M{})
	if err != nil {
		utils.JSONError(w, "Failed to fetch academies", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var academies []models.Academy
	if err = cursor.All(ctx, &academies); err != nil {
		utils.JSONError(w, "Error decoding academies", http.StatusInternalServerError)
		return
	}

	if len(academies) == 0 {
		utils.JSONError(w, "No academies found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(academies)
}

// GET /academies/{id}
func (h *AcademyHandler) GetAcademy(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var academy models.Academy
	if err := h.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&academy); err != nil {
		utils.JSONError(w, "Academy not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(academy)
}

// PUT /academies/{id}
func (h *AcademyHandler) UpdateAcademy(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
		return
	}

	var updateData map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		utils.JSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(updateData) == 0 {
		utils.JSONError(w, "No update fields provided", http.StatusBadRequest)
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
		utils.JSONError(w, "Academy not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.AcademyEntity, constants.Update, performedBy(r), updateData)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Academy updated successfully",
		"modifiedCount": result.ModifiedCount,
	})
}

// DELETE /academies/{id}
func (h *AcademyHandler) DeleteAcademy(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid academy ID", http.StatusBadRequest)
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
		utils.JSONError(w, "Academy not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.AcademyEntity, constants.Delete, performedBy(r), id.Hex())

	w.WriteHeader(http.StatusNoContent)
}
