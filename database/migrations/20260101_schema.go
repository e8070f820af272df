package migrations

import (
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/models"
	"github.com/kashvishop/storefront/pkg/migration"
)

// Registered parents first so every foreign key has its target table.
func init() {
	migration.Register("20260101000000_create_customer_table", table(&models.Customer{}))
	migration.Register("20260101000001_create_category_table", table(&models.Category{}))
	migration.Register("20260101000002_create_product_table", table(&models.Product{}))
	migration.Register("20260101000003_create_address_table", table(&models.Address{}))
	migration.Register("20260101000004_create_order_table", table(&models.Order{}))
	migration.Register("20260101000005_create_shopping_cart_table", table(&models.Cart{}))
	migration.Register("20260101000006_create_shopping_cart_item_table", table(&models.CartItem{}))
}

// createTable migrates one model up and drops its table down.
type createTable struct {
	model any
}

func table(model any) *createTable { return &createTable{model: model} }

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.model)
}
