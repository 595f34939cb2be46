package db_models

// AdminAccount holds back-office credentials. Signing in also requires the
// email to be on the configured allow-list.
type AdminAccount struct {
	BaseModel
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:admin"`
}
