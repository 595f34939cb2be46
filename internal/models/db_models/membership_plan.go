package db_models

type MembershipPlan struct {
	BaseModel
	Name            string `gorm:"not null"`
	Description     *string
	Price           float64 `gorm:"type:decimal(12,2);not null;default:0"`
	DurationMonths  int     `gorm:"not null;default:1"`
	FreeMonths      int     `gorm:"not null;default:0"`
	SubscriptionFee float64 `gorm:"type:decimal(12,2);not null;default:0"`
}

// TotalMonths is how far one renewal of this plan extends a membership.
func (p MembershipPlan) TotalMonths() int {
	return p.DurationMonths + p.FreeMonths
}
