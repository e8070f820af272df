package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/orm"
)

type AddressRepository struct {
	*orm.Repository[models.Address]
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{Repository: orm.NewRepository[models.Address](db)}
}

// Delete removes the address unless an order ships to it.
func (r *AddressRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.Order{}).Where("address_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return ErrAddressInUse
		}

		res := tx.Delete(&models.Address{}, id)
		deleted = res.RowsAffected == 1
		return res.Error
	})
	return deleted, err
}

// ReadAllByCustomer lists the addresses of one customer.
func (r *AddressRepository) ReadAllByCustomer(ctx context.Context, customerID uint) ([]models.Address, error) {
	return r.ReadAll(ctx, map[string]any{"customerId": customerID})
}
