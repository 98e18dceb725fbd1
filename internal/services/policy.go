package services

import (
	"github.com/TrivoAr/TrivoProfes-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrialPolicy string

const (
	// PolicyGlobal grants at most one trial per member, ever.
	PolicyGlobal TrialPolicy = "global"
	// PolicyPerAcademy grants at most one trial per member per academy.
	PolicyPerAcademy TrialPolicy = "per_academy"
)

// TrialConfig is passed in at construction; services never read ambient
// configuration.
type TrialConfig struct {
	Enabled    bool
	Policy     TrialPolicy
	MaxDays    int
	MaxClasses int
}

type BillingConfig struct {
	Currency      string
	Frequency     int
	FrequencyUnit string
}

type Eligibility struct {
	Eligible        bool   `json:"eligible"`
	AlreadyConsumed bool   `json:"already_consumed"`
	Reason          string `json:"reason,omitempty"`
}

// PolicyResolver decides trial eligibility. It is a pure read over the
// member data the caller supplies; it never touches the store.
type PolicyResolver struct {
	Config TrialConfig
}

func (p *PolicyResolver) ResolveEligibility(member *models.Member, academyID primitive.ObjectID) Eligibility {
	if !p.Config.Enabled {
		return Eligibility{
			Eligible:        false,
			AlreadyConsumed: false,
			Reason:          "trial offering is disabled",
		}
	}

	var consumed bool
	switch p.Config.Policy {
	case PolicyGlobal:
		consumed = member.TrialUsage.Used
	case PolicyPerAcademy:
		consumed = member.TrialUsage.HasAcademy(academyID)
	default:
		consumed = member.TrialUsage.Used
	}

	if consumed {
		return Eligibility{
			Eligible:        false,
			AlreadyConsumed: true,
			Reason:          "trial already consumed",
		}
	}
	return Eligibility{Eligible: true}
}
