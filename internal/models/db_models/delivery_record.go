package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TransportHuacal       = "Huacal"
	DeliveryStatusPending = "Pendiente"
)

// DeliveryRecord logs a crate (huacal) handed to a customer, with any extras
// sold alongside it.
type DeliveryRecord struct {
	BaseModel
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PickupLocationID *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryTime     time.Time  `gorm:"not null;index"`
	TransportType    string     `gorm:"not null;default:Huacal"`
	Quantity         int        `gorm:"not null;default:1"`
	ReturnedHuacals  int        `gorm:"not null;default:0"`
	Extras           datatypes.JSONMap
	ExtraItem        *string
	ExtraPrice       *float64 `gorm:"type:decimal(12,2)"`
	PaymentMethod    string
	CashPayment      float64 `gorm:"type:decimal(12,2);not null;default:0"`
	Status           string  `gorm:"not null;default:Pendiente"`
	HomeAddress      *string

	Customer       *Customer       `gorm:"foreignKey:CustomerID"`
	PickupLocation *PickupLocation `gorm:"foreignKey:PickupLocationID"`
}

func (DeliveryRecord) TableName() string { return "huacales" }
