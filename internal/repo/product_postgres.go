package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/rogerio-castellano/product-services/internal/models"
)

const queryTimeout = 3 * time.Second

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id    BIGINT PRIMARY KEY,
	name  TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL
)`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate creates the products table if it is missing.
func (r *PostgresProductRepository) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Seed inserts products, keeping their ids, when the table is empty.
func (r *PostgresProductRepository) Seed(ctx context.Context, products []models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE products IN EXCLUSIVE MODE`); err != nil {
		return err
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range products {
		if _, err := tx.ExecContext(ctx, `INSERT INTO products (id, name, price) VALUES ($1, $2, $3)`, p.ID, p.Name, p.Price); err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// List counts and pages the filtered rows inside one repeatable-read snapshot, so a
// concurrent write cannot shift the window between the two queries.
func (r *PostgresProductRepository) List(ctx context.Context, pf ProductFilter) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	conditions, args := filterConditions(pf.Name)

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	start, end := Window(total, pf.Page, pf.Limit)
	if start == end {
		return products, tx.Commit()
	}

	query := `SELECT id, name, price FROM products WHERE 1=1` + conditions + " ORDER BY id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, end-start, start)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	return products, tx.Commit()
}

func filterConditions(name string) (string, []any) {
	if name == "" {
		return "", nil
	}
	return " AND name ILIKE $1", []any{"%" + escapeLike(name) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, price FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// Create inserts the product under an exclusive lock so that the max-id-plus-one
// assignment cannot race another writer.
func (r *PostgresProductRepository) Create(ctx context.Context, name string, price float64) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE products IN EXCLUSIVE MODE`); err != nil {
		return models.Product{}, err
	}

	query := `INSERT INTO products (id, name, price)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2 FROM products
		RETURNING id`
	p := models.Product{Name: name, Price: price}
	if err := tx.QueryRowContext(ctx, query, name, price).Scan(&p.ID); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, id int, patch models.ProductPatch) (models.Product, error) {
	query := `UPDATE products
		SET name = COALESCE($1, name), price = COALESCE($2, price)
		WHERE id = $3
		RETURNING id, name, price`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, patch.Name, patch.Price, id).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
