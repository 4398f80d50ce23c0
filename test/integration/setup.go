package integration

import (
	"context"
	"testing"
	"time"

	"stockroom/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS suppliers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			contact VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			sku VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			unit_cost_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
			unit_selling_price DECIMAL(10, 2) NOT NULL DEFAULT 0,
			units_per_carton INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cartons (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			supplier_id BIGINT NOT NULL REFERENCES suppliers(id),
			units_remaining INT NOT NULL CHECK (units_remaining >= 0),
			unit_cost DECIMAL(10, 2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'received',
			is_open BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			reference UUID NOT NULL UNIQUE,
			customer_name VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(50) NOT NULL DEFAULT '',
			delivery_address TEXT NOT NULL DEFAULT '',
			subtotal DECIMAL(12, 2) NOT NULL,
			delivery_charge DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total_amount DECIMAL(12, 2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			mode VARCHAR(10) NOT NULL,
			carton_id BIGINT NOT NULL REFERENCES cartons(id),
			product_id BIGINT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL,
			unit_price DECIMAL(10, 2) NOT NULL,
			line_total DECIMAL(12, 2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cartons_product_status ON cartons(product_id, status);
		CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// seedSupplier inserts a supplier and returns its ID.
func seedSupplier(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO suppliers (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed supplier: %v", err)
	}
	return id
}

// seedProduct inserts a product and returns its ID.
func seedProduct(t *testing.T, pool *pgxpool.Pool, sku string, sellingPrice decimal.Decimal, unitsPerCarton int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (sku, name, unit_cost_price, unit_selling_price, units_per_carton)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sku, "Product "+sku, sellingPrice.Div(decimal.NewFromInt(2)), sellingPrice, unitsPerCarton,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

// seedCarton inserts a carton and returns its ID.
func seedCarton(t *testing.T, pool *pgxpool.Pool, productID, supplierID int64, units int, status model.CartonStatus, open bool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO cartons (product_id, supplier_id, units_remaining, unit_cost, status, is_open)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		productID, supplierID, units, decimal.NewFromFloat(1.25), status, open,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed carton: %v", err)
	}
	return id
}

// cartonState reads back a carton's status and remaining units.
func cartonState(t *testing.T, pool *pgxpool.Pool, id int64) (model.CartonStatus, int) {
	t.Helper()

	var status model.CartonStatus
	var units int
	err := pool.QueryRow(context.Background(),
		`SELECT status, units_remaining FROM cartons WHERE id = $1`, id).Scan(&status, &units)
	if err != nil {
		t.Fatalf("failed to read carton state: %v", err)
	}
	return status, units
}
