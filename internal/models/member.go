package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

const MemberEntity = "member"

// TrialUsage records which free trials a member has burned. Under the
// global policy only Used matters; under the per-academy policy Academies
// lists every academy that has already granted this member a trial.
type TrialUsage struct {
	Used      bool                 `bson:"used" json:"used"`
	Academies []primitive.ObjectID `bson:"academies" json:"academies"`
}

func (t TrialUsage) HasAcademy(academyID primitive.ObjectID) bool {
	for _, id := range t.Academies {
		if id == academyID {
			return true
		}
	}
	return false
}

type Member struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Active     bool               `bson:"active" json:"active"` // For deactivation
	TrialUsage TrialUsage         `bson:"trialUsage" json:"trial_usage"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
