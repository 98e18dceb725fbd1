package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AcademyEntity = "academy"

type Academy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Discipline  string             `bson:"discipline" json:"discipline"`
	Description string             `bson:"description" json:"description"`
	MonthlyFee  float64            `bson:"monthly_fee" json:"monthly_fee"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
