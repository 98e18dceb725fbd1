package utils

import (
	"context"
	"time"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type Logger struct {
	Collection *mongo.Collection
}

func (l *Logger) Log(ctx context.Context, entity, action, performedBy string, data any) error {
	log := models.AuditLog{
		Timestamp:   time.Now(),
		Entity:      entity,
		Action:      action,
		PerformedBy: performedBy,
		Data:        data,
	}
	_, err := l.Collection.InsertOne(ctx, log)
	return err
}
