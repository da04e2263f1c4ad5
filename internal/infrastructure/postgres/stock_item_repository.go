package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, name, category, brand, quantity, min_stock, expiration_date, units_per_package, code, unit_of_measure, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.Brand, item.Quantity, item.MinStock,
		item.ExpirationDate, item.UnitsPerPackage, item.Code, item.UnitOfMeasure,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil si no existe.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get stock item")
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get stock item for update")
}

// List lista lotes con filtros opcionales, ordenados por nombre.
func (r *StockItemRepo) List(filter repository.StockItemFilter) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items`
	var args []any
	var conds []string
	if filter.Name != "" {
		args = append(args, filter.Name)
		conds = append(conds, fmt.Sprintf("name = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY name, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListAvailableByName lotes con ese nombre y cantidad > 0 en orden FIFO:
// vencimiento ascendente con nulos al final, id como desempate.
func (r *StockItemRepo) ListAvailableByName(name string) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE name = $1 AND quantity > 0
		ORDER BY expiration_date ASC NULLS LAST, id ASC`
	rows, err := r.q.Query(context.Background(), query, name)
	if err != nil {
		return nil, fmt.Errorf("list available by name: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza los campos descriptivos de un lote. La cantidad se muta
// solo vía UpdateQuantity dentro de la transacción del movimiento.
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, category = $3, brand = $4, min_stock = $5, expiration_date = $6,
		    units_per_package = $7, code = $8, unit_of_measure = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.Brand, item.MinStock, item.ExpirationDate,
		item.UnitsPerPackage, item.Code, item.UnitOfMeasure, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad vigente y updated_at.
func (r *StockItemRepo) UpdateQuantity(id string, quantity int) error {
	query := `UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock item quantity: %w", err)
	}
	return nil
}

// Delete elimina un lote de forma definitiva.
func (r *StockItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

func (r *StockItemRepo) scanOne(row pgx.Row, op string) (*entity.StockItem, error) {
	var item entity.StockItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Category, &item.Brand, &item.Quantity, &item.MinStock,
		&item.ExpirationDate, &item.UnitsPerPackage, &item.Code, &item.UnitOfMeasure,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

func (r *StockItemRepo) scanAll(rows pgx.Rows) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	for rows.Next() {
		var item entity.StockItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.Brand, &item.Quantity, &item.MinStock,
			&item.ExpirationDate, &item.UnitsPerPackage, &item.Code, &item.UnitOfMeasure,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
