package db_models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultRenewalConcept = "Renovación mensual"

// Renewal is an append-only ledger row. Besides the payment details it keeps
// the window it produced so the history explains every end date.
type Renewal struct {
	BaseModel
	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	MembershipPlanID uuid.UUID `gorm:"type:uuid;not null;index"`
	RenewalDate      time.Time `gorm:"not null;index"`
	Concept          string    `gorm:"not null"`
	Amount           float64   `gorm:"type:decimal(12,2);not null;default:0"`
	MethodOfPayment  string
	ReceivedBy       string
	PreviousEndDate  *time.Time
	NewStartDate     time.Time `gorm:"not null"`
	NewEndDate       time.Time `gorm:"not null"`

	Customer       *Customer       `gorm:"foreignKey:CustomerID"`
	MembershipPlan *MembershipPlan `gorm:"foreignKey:MembershipPlanID"`
}

func (Renewal) TableName() string { return "membership_renewals" }
