package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/orm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	*orm.Repository[models.Customer]
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{Repository: orm.NewRepository[models.Customer](db)}
}

// Create inserts c unless its email is already registered.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	taken, err := r.emailTaken(ctx, c.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	return duplicateEmail(r.Repository.Create(ctx, c))
}

// Update writes changes to c. Moving to an email owned by another customer
// fails with ErrDuplicateEmail and leaves the row untouched.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer, changes map[string]any) error {
	if email, ok := changes["email"].(string); ok {
		taken, err := r.emailTaken(ctx, email, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
	}

	return duplicateEmail(r.Repository.Update(ctx, c, changes))
}

// Login returns the customer whose email and password both match.
func (r *CustomerRepository) Login(ctx context.Context, email, password string) (*models.Customer, error) {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var c models.Customer
	err := r.DB(ctx).Where("email = ? AND password = ?", email, password).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return &c, nil
}

// FindByEmail looks up a customer by email address.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var c models.Customer
	if err := r.DB(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, orm.NotFound(err)
	}
	return &c, nil
}

func (r *CustomerRepository) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var n int64
	q := r.DB(ctx).Model(&models.Customer{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// duplicateEmail catches the unique-index violation when two registrations
// race past the pre-check.
func duplicateEmail(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}
