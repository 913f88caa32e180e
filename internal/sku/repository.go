package sku

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stocklight/stocklight/internal/platform/db"
)

// Repository persists SKU records in PostgreSQL.
type Repository interface {
	Create(ctx context.Context, item SKU) (SKU, error)
	Get(ctx context.Context, code string) (SKU, error)
	List(ctx context.Context, filters ListFilters) ([]SKU, int, error)
	UpdateFields(ctx context.Context, code string, patch FieldPatch) (SKU, error)
	AdjustQuantity(ctx context.Context, code string, delta int64) (SKU, error)
	LowStock(ctx context.Context) ([]SKU, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const skuColumns = `id, code, description, quantity, reorder_point, price, is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, item SKU) (SKU, error) {
	query := `INSERT INTO skus (code, description, quantity, reorder_point, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	price, err := decimalToNumeric(item.Price)
	if err != nil {
		return SKU{}, err
	}
	now := time.Now().UTC()
	err = r.pool.QueryRow(ctx, query,
		item.Code, item.Description, item.Quantity, item.ReorderPoint,
		price, item.IsActive, now,
	).Scan(&item.ID)
	if err != nil {
		return SKU{}, mapPgError(err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Get(ctx context.Context, code string) (SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE code = $1`
	item, err := scanSKU(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		return SKU{}, mapPgError(err)
	}
	return item, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]SKU, int, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM skus WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (code ILIKE $` + strconv.Itoa(argCount) + ` OR description ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.ActiveOnly {
		query += ` AND is_active`
		countQuery += ` AND is_active`
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Stable order within a single read.
	query += ` ORDER BY code`

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []SKU
	for rows.Next() {
		item, err := scanSKU(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repository) UpdateFields(ctx context.Context, code string, patch FieldPatch) (SKU, error) {
	var item SKU
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `SELECT ` + skuColumns + ` FROM skus WHERE code = $1 FOR UPDATE`
		current, err := scanSKU(tx.QueryRow(ctx, query, code))
		if err != nil {
			return err
		}
		if patch.Description != nil {
			current.Description = *patch.Description
		}
		if patch.ReorderPoint != nil {
			current.ReorderPoint = *patch.ReorderPoint
		}
		if patch.Price != nil {
			current.Price = *patch.Price
		}
		if patch.IsActive != nil {
			current.IsActive = *patch.IsActive
		}
		price, err := decimalToNumeric(current.Price)
		if err != nil {
			return err
		}
		current.UpdatedAt = time.Now().UTC()
		_, err = tx.Exec(ctx,
			`UPDATE skus SET description = $2, reorder_point = $3, price = $4, is_active = $5, updated_at = $6 WHERE id = $1`,
			current.ID, current.Description, current.ReorderPoint,
			price, current.IsActive, current.UpdatedAt,
		)
		if err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		return SKU{}, mapPgError(err)
	}
	return item, nil
}

// AdjustQuantity applies delta to the stored quantity inside one transaction.
// The row lock on the code serializes concurrent adjustments of the same SKU
// while leaving other codes uncontended.
func (r *repository) AdjustQuantity(ctx context.Context, code string, delta int64) (SKU, error) {
	var item SKU
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `SELECT ` + skuColumns + ` FROM skus WHERE code = $1 FOR UPDATE`
		current, err := scanSKU(tx.QueryRow(ctx, query, code))
		if err != nil {
			return err
		}
		if !current.IsActive {
			return ErrNotFound
		}
		newQty := current.Quantity + delta
		if newQty < 0 {
			return ErrInsufficientStock
		}
		if delta != 0 {
			current.UpdatedAt = time.Now().UTC()
			_, err = tx.Exec(ctx,
				`UPDATE skus SET quantity = $2, updated_at = $3 WHERE id = $1`,
				current.ID, newQty, current.UpdatedAt,
			)
			if err != nil {
				return err
			}
			current.Quantity = newQty
		}
		item = current
		return nil
	})
	if err != nil {
		return SKU{}, mapPgError(err)
	}
	return item, nil
}

// LowStock reads every active SKU at or below its reorder point. A single
// statement, so the result is one consistent snapshot.
func (r *repository) LowStock(ctx context.Context) ([]SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE is_active AND quantity <= reorder_point ORDER BY code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SKU
	for rows.Next() {
		item, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanSKU(row pgx.Row) (SKU, error) {
	var item SKU
	var price pgtype.Numeric
	err := row.Scan(&item.ID, &item.Code, &item.Description, &item.Quantity,
		&item.ReorderPoint, &price, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return SKU{}, err
	}
	item.Price = numericToDecimal(price)
	return item, nil
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateCode
		case "23514":
			return ErrValidation
		case "40001":
			return ErrPreconditionFailed
		}
	}
	return err
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func decimalToNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("sku: encode price %q: %w", d.String(), err)
	}
	return n, nil
}
