package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionState string

// Persisted state strings. The Spanish values are the on-disk contract of
// the existing subscriptions collection and must not be renamed.
const (
	StateTrial        SubscriptionState = "trial"
	StateTrialExpired SubscriptionState = "trial_expirado"
	StatePending      SubscriptionState = "pendiente"
	StateActive       SubscriptionState = "activa"
	StateLapsed       SubscriptionState = "vencida"
	StatePaused       SubscriptionState = "pausada"
	StateCancelled    SubscriptionState = "cancelada"

	SubscriptionEntity = "subscription"
)

var ValidSubscriptionStates = map[string]bool{
	string(StateTrial):        true,
	string(StateTrialExpired): true,
	string(StatePending):      true,
	string(StateActive):       true,
	string(StateLapsed):       true,
	string(StatePaused):       true,
	string(StateCancelled):    true,
}

func IsValidSubscriptionState(state string) bool {
	return ValidSubscriptionStates[state]
}

// InForceStates are the states in which a member counts as subscribed to an
// academy. A member may hold at most one in-force subscription per academy.
var InForceStates = []SubscriptionState{
	StateTrial,
	StateTrialExpired,
	StatePending,
	StateActive,
}

func (s SubscriptionState) InForce() bool {
	for _, st := range InForceStates {
		if s == st {
			return true
		}
	}
	return false
}

// Trial is present on every subscription, zeroed when no trial was granted.
type Trial struct {
	Active          bool      `bson:"active" json:"active"`
	StartDate       time.Time `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate         time.Time `bson:"endDate,omitempty" json:"end_date,omitempty"`
	ClassesAttended int       `bson:"classesAttended" json:"classes_attended"`
	WasConsumed     bool      `bson:"wasConsumed" json:"was_consumed"`
}

// PaymentGateway holds identifiers supplied by the external payment
// integration. Stored verbatim, never interpreted here.
type PaymentGateway struct {
	PreapprovalID string `bson:"preapprovalId,omitempty" json:"preapproval_id,omitempty"`
	PayerID       string `bson:"payerId,omitempty" json:"payer_id,omitempty"`
	Status        string `bson:"status,omitempty" json:"status,omitempty"`
}

type Billing struct {
	Amount        float64    `bson:"amount" json:"amount"`
	Currency      string     `bson:"currency" json:"currency"`
	Frequency     int        `bson:"frequency" json:"frequency"`
	FrequencyUnit string     `bson:"frequencyUnit" json:"frequency_unit"`
	NextDueDate   *time.Time `bson:"nextDueDate,omitempty" json:"next_due_date,omitempty"`
	LastPaidDate  *time.Time `bson:"lastPaidDate,omitempty" json:"last_paid_date,omitempty"`
}

type Subscription struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MemberID       primitive.ObjectID  `bson:"member_id" json:"member_id"`
	AcademyID      primitive.ObjectID  `bson:"academy_id" json:"academy_id"`
	GroupID        *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Estado         SubscriptionState   `bson:"estado" json:"estado"`
	Trial          Trial               `bson:"trial" json:"trial"`
	PaymentGateway PaymentGateway      `bson:"paymentGateway" json:"payment_gateway"`
	Billing        Billing             `bson:"billing" json:"billing"`
	CancelledAt    *time.Time          `bson:"cancelledAt,omitempty" json:"cancelled_at,omitempty"`
	Version        int64               `bson:"version" json:"version"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// TrialExpired reports whether the trial has run out, either by class count
// or by calendar. Expiration is evaluated lazily: the stored state only
// changes when an attendance event is reconciled, so read paths that need
// "expired right now" call this instead of trusting Estado.
func (s *Subscription) TrialExpired(now time.Time, maxClasses int) bool {
	return s.Trial.ClassesAttended >= maxClasses || now.After(s.Trial.EndDate)
}
