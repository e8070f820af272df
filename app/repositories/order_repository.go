package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/orm"
)

type OrderRepository struct {
	*orm.Repository[models.Order]
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{Repository: orm.NewRepository[models.Order](db)}
}

// Create inserts o. New orders start incomplete and default to being placed now.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	prepare(o)
	if err := r.Repository.Create(ctx, o); err != nil {
		return err
	}
	metrics.OrdersCreated.Inc()
	return nil
}

// MarkComplete moves o to complete and stamps completedAt. Orders that are
// already complete keep their original completion time.
func (r *OrderRepository) MarkComplete(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveDBQuery(r.Table(), "update", time.Now())

	db := r.DB(ctx)
	res := db.Model(o).
		Where("status = ?", models.OrderIncomplete).
		Updates(map[string]any{
			"status":       models.OrderComplete,
			"completed_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		metrics.OrdersCompleted.Inc()
	}

	return orm.NotFound(db.First(o).Error)
}

// Checkout turns the cart into an incomplete order for addressID in one
// transaction: the order is created with the cart total, linked from the cart,
// and the cart's lines are removed.
func (r *OrderRepository) Checkout(ctx context.Context, cart *models.Cart, addressID uint) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		TotalPrice: cart.Total(),
		CustomerID: cart.CustomerID,
		AddressID:  addressID,
	}
	prepare(order)

	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("order_id", order.ID).Error; err != nil {
			return err
		}
		return tx.Where("shopping_cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	cart.OrderID = &order.ID
	cart.Items = []models.CartItem{}
	return order, nil
}

// ReadAllByCustomer lists one customer's orders.
func (r *OrderRepository) ReadAllByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return r.ReadAll(ctx, map[string]any{"customerId": customerID})
}

func prepare(o *models.Order) {
	if o.Status == "" {
		o.Status = models.OrderIncomplete
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
}
