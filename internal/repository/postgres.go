// Package repository содержит реализации хранилища заказов.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/order-summary/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const upsertOrderSQL = `INSERT INTO orders (
		order_id, uuid, order_priority, region, country, item_type, sales_channel,
		order_date, ship_date, units_sold, unit_price, unit_cost, total_revenue, total_cost, total_profit
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (order_id) DO UPDATE SET
		uuid = EXCLUDED.uuid,
		order_priority = EXCLUDED.order_priority,
		region = EXCLUDED.region,
		country = EXCLUDED.country,
		item_type = EXCLUDED.item_type,
		sales_channel = EXCLUDED.sales_channel,
		order_date = EXCLUDED.order_date,
		ship_date = EXCLUDED.ship_date,
		units_sold = EXCLUDED.units_sold,
		unit_price = EXCLUDED.unit_price,
		unit_cost = EXCLUDED.unit_cost,
		total_revenue = EXCLUDED.total_revenue,
		total_cost = EXCLUDED.total_cost,
		total_profit = EXCLUDED.total_profit`

const selectOrderColumns = `SELECT order_id, uuid, order_priority, region, country, item_type, sales_channel,
		order_date, ship_date, units_sold,
		unit_price::text, unit_cost::text, total_revenue::text, total_cost::text, total_profit::text
	FROM orders`

// Порядок первой вставки: import_seq не меняется при перезаписи заказа.
const selectAllOrdersSQL = selectOrderColumns + ` ORDER BY import_seq`

// PostgresRepository хранит заказы в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// SaveAll сохраняет заказы одной транзакцией. Существующие заказы с тем же ключом перезаписываются целиком.
func (r *PostgresRepository) SaveAll(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(upsertOrderSQL,
			o.OrderID, o.UUID, o.OrderPriority, o.Region, o.Country, o.ItemType, o.SalesChannel,
			o.OrderDate, o.ShipDate, o.UnitsSold,
			model.FormatAmount(o.UnitPrice), model.FormatAmount(o.UnitCost), model.FormatAmount(o.TotalRevenue),
			model.FormatAmount(o.TotalCost), model.FormatAmount(o.TotalProfit),
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, o := range orders {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return wrapErr("save order "+o.OrderID, err)
		}
	}
	if err := br.Close(); err != nil {
		return wrapErr("close batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit tx", err)
	}

	return nil
}

// FindAll возвращает все сохранённые заказы в порядке их первого сохранения.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, selectAllOrdersSQL)
	if err != nil {
		return nil, wrapErr("select orders", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapErr("scan order", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	return orders, nil
}

// FindByID возвращает заказ по первичному ключу.
func (r *PostgresRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, selectOrderColumns+` WHERE order_id = $1`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, wrapErr("select order", err)
	}

	return &o, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o                                       model.Order
		price, cost, revenue, totalCost, profit string
	)

	err := row.Scan(
		&o.OrderID, &o.UUID, &o.OrderPriority, &o.Region, &o.Country, &o.ItemType, &o.SalesChannel,
		&o.OrderDate, &o.ShipDate, &o.UnitsSold,
		&price, &cost, &revenue, &totalCost, &profit,
	)
	if err != nil {
		return model.Order{}, err
	}

	amounts := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&o.UnitPrice, price},
		{&o.UnitCost, cost},
		{&o.TotalRevenue, revenue},
		{&o.TotalCost, totalCost},
		{&o.TotalProfit, profit},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.src)
		if err != nil {
			return model.Order{}, fmt.Errorf("parse amount %q: %w", a.src, err)
		}
		*a.dst = d
	}

	return o, nil
}
