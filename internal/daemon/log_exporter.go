package daemon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

type LogExporter struct {
	Coll *mongo.Collection
}

func (l *LogExporter) InitLogExporter() {
	go func() {
		for {
			res, _ := l.Coll.Find(context.Background(), bson.M{"exported": false})

			var logs []models.AuditLog
			_ = res.All(context.Background(), &logs)

			if len(logs) > 0 {
				batchID := uuid.NewString()
				_ = utils.ExportData(batchID, logs)
				updateIds := []primitive.ObjectID{}

				for i := 0; i < len(logs); i++ {
					updateIds = append(updateIds, logs[i].ID)
				}

				l.Coll.UpdateMany(context.Background(), bson.M{"_id": bson.M{"$in": updateIds}}, bson.M{"$set": bson.M{"exported": true, "export_batch": batchID}})
			}
			time.Sleep(30 * time.Second)
		}
	}()
}
