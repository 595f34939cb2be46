package db_models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type PickupLocation struct {
	BaseModel
	Name         string `gorm:"not null"`
	Address      string `gorm:"not null"`
	Schedule     *string
	Zone         *string      `gorm:"index"`
	DeliveryDays DeliveryDays `json:"delivery_days"`
}

// Label is the "name - address" form used on lists and exports.
func (p PickupLocation) Label() string {
	if p.Address == "" {
		return p.Name
	}
	return p.Name + " - " + p.Address
}

// DeliveryDays is a postgres text[] column, stored in its array literal
// form on other dialects.
type DeliveryDays pq.StringArray

func (d DeliveryDays) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	return pq.StringArray(d).Value()
}

func (d *DeliveryDays) Scan(src interface{}) error {
	return (*pq.StringArray)(d).Scan(src)
}

func (DeliveryDays) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
