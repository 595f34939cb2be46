package db_models

import (
	"time"

	"github.com/google/uuid"
)

type CustomerStatus string

const (
	StatusActive    CustomerStatus = "ACTIVE"
	StatusCancelled CustomerStatus = "CANCELLED"
	StatusPending   CustomerStatus = "PENDING"
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPending:
		return true
	}
	return false
}

type Customer struct {
	BaseModel
	Name             string `gorm:"not null;index"`
	Email            string `gorm:"uniqueIndex;not null"`
	Phone            *string
	PasswordHash     string         `gorm:"not null" json:"-"`
	MembershipCode   string         `gorm:"uniqueIndex;not null;<-:create"`
	Status           CustomerStatus `gorm:"type:varchar(16);not null;default:PENDING;index"`
	MembershipPlanID uuid.UUID      `gorm:"type:uuid;not null;index"`
	StartDate        *time.Time
	EndDate          *time.Time `gorm:"index"`
	PickupLocationID *uuid.UUID `gorm:"type:uuid;index"`
	Delivered        bool       `gorm:"not null;default:false"`
	DeliveredAt      *time.Time

	MembershipPlan *MembershipPlan `gorm:"foreignKey:MembershipPlanID"`
	PickupLocation *PickupLocation `gorm:"foreignKey:PickupLocationID"`
}
