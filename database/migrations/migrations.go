// Package migrations registers the storefront schema with pkg/migration.
// Import it for side effects wherever the schema must be known:
//
//	import _ "github.com/kashvishop/storefront/database/migrations"
package migrations
