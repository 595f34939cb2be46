package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ococalli/internal/models/db_models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *db_models.AdminAccount) error
	UpdateCredentials(ctx context.Context, account *db_models.AdminAccount) error
	FindById(ctx context.Context, id string) (*db_models.AdminAccount, error)
	FindByEmail(ctx context.Context, email string) (*db_models.AdminAccount, error)
	List(ctx context.Context) ([]db_models.AdminAccount, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Create(ctx context.Context, account *db_models.AdminAccount) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) UpdateCredentials(ctx context.Context, account *db_models.AdminAccount) error {
	return a.db.WithContext(ctx).Model(account).
		Select("name", "password_hash", "role").
		Updates(account).Error
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.AdminAccount, error) {
	var account db_models.AdminAccount
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.AdminAccount, error) {
	var account db_models.AdminAccount
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) List(ctx context.Context) ([]db_models.AdminAccount, error) {
	var accounts []db_models.AdminAccount
	err := a.db.WithContext(ctx).Order("email ASC").Find(&accounts).Error
	return accounts, err
}
