package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const GroupEntity = "group"

// Group is a class group inside an academy; subscriptions may optionally
// be scoped to one.
type Group struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AcademyID primitive.ObjectID `bson:"academy_id" json:"academy_id"`
	Name      string             `bson:"name" json:"name"`
	Schedule  string             `bson:"schedule" json:"schedule"`
	Capacity  int                `bson:"capacity" json:"capacity"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
