package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/metrics"
	"github.com/kashvishop/storefront/pkg/orm"
)

const cartItemColumns = "sci.*, p.title, p.url, p.description, p.price AS product_price"

// CartRepository handles a cart and its line items. Every mutation changes
// the stored rows and applies the same edit to cart.Items.
type CartRepository struct {
	*orm.Repository[models.Cart]
	items    *orm.Repository[models.CartItem]
	products *orm.Repository[models.Product]
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		Repository: orm.NewRepository[models.Cart](db),
		items:      orm.NewRepository[models.CartItem](db),
		products:   orm.NewRepository[models.Product](db),
	}
}

// ReadByCustomerID returns the customer's cart with each line joined to its
// product's title, url, description and current price.
func (r *CartRepository) ReadByCustomerID(ctx context.Context, customerID uint) (*models.Cart, error) {
	defer metrics.ObserveDBQuery(r.Table(), "select", time.Now())

	var cart models.Cart
	if err := r.DB(ctx).Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		return nil, orm.NotFound(err)
	}

	items := []models.CartItem{}
	if err := r.itemQuery(ctx, cart.ID).Scan(&items).Error; err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// ReadOrCreate returns the customer's cart, inserting an empty one first if
// none exists. The insert is a no-op under the unique customer_id index, so
// concurrent callers all end up with the same row.
func (r *CartRepository) ReadOrCreate(ctx context.Context, customerID uint) (*models.Cart, error) {
	start := time.Now()
	err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
		Create(&models.Cart{CustomerID: customerID}).Error
	metrics.ObserveDBQuery(r.Table(), "upsert", start)
	if err != nil {
		return nil, err
	}

	return r.ReadByCustomerID(ctx, customerID)
}

// AddItem puts qty units of productID in the cart. An existing line has its
// quantity increased; a new line captures the product's current price.
func (r *CartRepository) AddItem(ctx context.Context, cart *models.Cart, productID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	product, err := r.products.Read(ctx, productID)
	if err != nil {
		return err
	}

	start := time.Now()
	item := models.CartItem{
		ShoppingCartID: cart.ID,
		ProductID:      productID,
		Quantity:       qty,
		UnitPrice:      product.Price,
	}
	err = r.items.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shopping_cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("shopping_cart_item.quantity + ?", qty),
			}),
		}).
		Create(&item).Error
	metrics.ObserveDBQuery(r.items.Table(), "upsert", start)
	if err != nil {
		return err
	}
	metrics.CartItemsAdded.Add(float64(qty))

	return r.refreshItem(ctx, cart, productID)
}

// UpdateItem sets the quantity of an existing line. A quantity of zero or
// less removes the line. Reports whether a line changed.
func (r *CartRepository) UpdateItem(ctx context.Context, cart *models.Cart, productID uint, qty int) (bool, error) {
	if qty <= 0 {
		return r.RemoveItem(ctx, cart, productID)
	}

	defer metrics.ObserveDBQuery(r.items.Table(), "update", time.Now())

	res := r.items.DB(ctx).
		Model(&models.CartItem{}).
		Where("shopping_cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if item, ok := cart.Item(productID); ok {
		item.Quantity = qty
		return true, nil
	}
	return true, r.refreshItem(ctx, cart, productID)
}

// RemoveItem deletes the line for productID. Reports whether one existed.
func (r *CartRepository) RemoveItem(ctx context.Context, cart *models.Cart, productID uint) (bool, error) {
	defer metrics.ObserveDBQuery(r.items.Table(), "delete", time.Now())

	res := r.items.DB(ctx).
		Where("shopping_cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}

	cart.DropItem(productID)
	return res.RowsAffected == 1, nil
}

// Clear deletes every line of the cart. Reports whether any existed.
func (r *CartRepository) Clear(ctx context.Context, cart *models.Cart) (bool, error) {
	defer metrics.ObserveDBQuery(r.items.Table(), "delete", time.Now())

	res := r.items.DB(ctx).
		Where("shopping_cart_id = ?", cart.ID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}

	cart.Items = []models.CartItem{}
	return res.RowsAffected > 0, nil
}

func (r *CartRepository) itemQuery(ctx context.Context, cartID uint) *gorm.DB {
	return r.items.DB(ctx).
		Table("shopping_cart_item AS sci").
		Select(cartItemColumns).
		Joins("JOIN product p ON p.id = sci.product_id").
		Where("sci.shopping_cart_id = ?", cartID).
		Order("sci.id")
}

// refreshItem re-reads one line with its product fields into cart.Items.
func (r *CartRepository) refreshItem(ctx context.Context, cart *models.Cart, productID uint) error {
	var items []models.CartItem
	if err := r.itemQuery(ctx, cart.ID).Where("sci.product_id = ?", productID).Scan(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		cart.DropItem(productID)
		return nil
	}

	cart.PutItem(items[0])
	return nil
}
