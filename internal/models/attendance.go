package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AttendanceEntity = "attendance"

// Attendance is written once per class visit. WasTrialClass is snapshotted
// from the subscription's trial flag at registration time and never
// recomputed, so history stays accurate after the trial expires.
type Attendance struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID       primitive.ObjectID `bson:"member_id" json:"member_id"`
	AcademyID      primitive.ObjectID `bson:"academy_id" json:"academy_id"`
	GroupID        primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	SubscriptionID primitive.ObjectID `bson:"subscription_id" json:"subscription_id"`
	Date           time.Time          `bson:"date" json:"date"`
	WasTrialClass  bool               `bson:"wasTrialClass" json:"was_trial_class"`
	RegisteredBy   string             `bson:"registered_by" json:"registered_by"`
}
