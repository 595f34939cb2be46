package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ococalli/internal/infra"
	"ococalli/internal/models/db_models"
)

// CustomerListFilter narrows List. Query matches name, email or membership
// code, case-insensitively.
type CustomerListFilter struct {
	Query  string
	Status db_models.CustomerStatus
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *db_models.Customer) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Customer, error)
	FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*db_models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Customer, error)
	FindByMembershipCode(ctx context.Context, code string) (*db_models.Customer, error)
	List(ctx context.Context, filter CustomerListFilter) ([]db_models.Customer, error)
	ListWithEndDateBefore(ctx context.Context, before time.Time) ([]db_models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CountByPickupLocation(ctx context.Context, locationID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) CustomerRepository
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("MembershipPlan", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("PickupLocation")
}

func (r *customerRepository) Create(ctx context.Context, customer *db_models.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(customer).Error
}

func (r *customerRepository) first(db *gorm.DB, query string, args ...interface{}) (*db_models.Customer, error) {
	var customer db_models.Customer
	err := db.Where(query, args...).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Customer, error) {
	return r.first(r.withRelations(ctx), "customers.id = ?", id)
}

// FindByIdForUpdate locks the row until the surrounding transaction ends.
// Only postgres takes the lock, SQLite already serialises writers.
func (r *customerRepository) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*db_models.Customer, error) {
	db := r.db.WithContext(ctx)
	if infra.IsPostgres(db) {
		db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return r.first(db, "id = ?", id)
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*db_models.Customer, error) {
	return r.first(r.withRelations(ctx), "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *customerRepository) FindByMembershipCode(ctx context.Context, code string) (*db_models.Customer, error) {
	return r.first(r.withRelations(ctx), "membership_code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *customerRepository) List(ctx context.Context, filter CustomerListFilter) ([]db_models.Customer, error) {
	q := r.withRelations(ctx)
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(membership_code) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var customers []db_models.Customer
	err := q.Order("name ASC").Order("id ASC").Find(&customers).Error
	return customers, err
}

// ListWithEndDateBefore returns customers whose stored end date is before the
// cutoff, plus those with no stored end date but a start date, whose end is
// derived from the plan by the caller.
func (r *customerRepository) ListWithEndDateBefore(ctx context.Context, before time.Time) ([]db_models.Customer, error) {
	var customers []db_models.Customer
	err := r.withRelations(ctx).
		Where("(end_date IS NOT NULL AND end_date < ?) OR (end_date IS NULL AND start_date IS NOT NULL)", before).
		Order("end_date ASC").
		Find(&customers).Error
	return customers, err
}

// Update writes the given columns. The membership code is never written
// after insert.
func (r *customerRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.Customer{BaseModel: db_models.BaseModel{ID: id}}).
		Omit("membership_code").
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkDelivered flips delivered once. The second call matches no row and
// reports false, leaving delivered_at untouched.
func (r *customerRepository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Customer{}).
		Where("id = ? AND delivered = ?", id, false).
		Updates(map[string]interface{}{"delivered": true, "delivered_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *customerRepository) CountByPickupLocation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Customer{}).
		Where("pickup_location_id = ?", locationID).
		Count(&n).Error
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
