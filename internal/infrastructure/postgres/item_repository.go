package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, product_code, critical_threshold, total_stock, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Name, &it.ProductCode, &it.CriticalThreshold, &it.TotalStock, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un insumo nuevo. total_stock arranca en cero.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (name, product_code, critical_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, total_stock`
	err := r.q.QueryRow(ctx, query, item.Name, item.ProductCode, item.CriticalThreshold, item.CreatedAt, item.UpdatedAt).
		Scan(&item.ID, &item.TotalStock)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo; nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Exists indica si el insumo existe.
func (r *ItemRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("item exists: %w", err)
	}
	return ok, nil
}

// UpdateCatalog actualiza nombre, código y umbral.
func (r *ItemRepo) UpdateCatalog(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, product_code = $3, critical_threshold = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Name, item.ProductCode, item.CriticalThreshold, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todos los insumos por nombre.
func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// LockForUpdate bloquea los insumos (SELECT FOR UPDATE) en orden ascendente de id.
func (r *ItemRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Item, error) {
	out := make(map[int64]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, classify("lock items", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify("lock items", err)
		}
		out[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, classify("lock items", err)
	}
	return out, nil
}

// ApplyDelta incremento atómico en la BD; nunca lee-calcula-escribe en memoria.
func (r *ItemRepo) ApplyDelta(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE items SET total_stock = total_stock + $2, updated_at = now()
		WHERE id = $1 AND total_stock + $2 >= 0
		RETURNING total_stock`
	var total int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("apply item delta %d: %w", id, domain.ErrInsufficientStock)
		}
		return 0, classify("apply item delta", err)
	}
	return total, nil
}

const driftQuery = `
	SELECT i.id, i.name, i.total_stock, COALESCE(SUM(b.stock), 0) AS computed
	FROM items i
	LEFT JOIN batches b ON b.item_id = i.id
	GROUP BY i.id
	HAVING i.total_stock <> COALESCE(SUM(b.stock), 0)
	ORDER BY i.id`

// ListDrift recalcula Σ stock de lotes por insumo y devuelve los desalineados.
func (r *ItemRepo) ListDrift(ctx context.Context) ([]entity.StockDrift, error) {
	return r.queryDrift(ctx, driftQuery)
}

// RepairTotals bloquea todos los insumos (mismo orden que los movimientos) y corrige los totales.
// Debe ejecutarse dentro de una transacción.
func (r *ItemRepo) RepairTotals(ctx context.Context) ([]entity.StockDrift, error) {
	if _, err := r.q.Exec(ctx, `SELECT 1 FROM items ORDER BY id FOR UPDATE`); err != nil {
		return nil, classify("lock items", err)
	}
	query := `
		WITH sums AS (
			SELECT i.id, i.name, i.total_stock AS recorded, COALESCE(SUM(b.stock), 0) AS computed
			FROM items i
			LEFT JOIN batches b ON b.item_id = i.id
			GROUP BY i.id
		)
		UPDATE items SET total_stock = sums.computed, updated_at = now()
		FROM sums
		WHERE items.id = sums.id AND sums.recorded <> sums.computed
		RETURNING items.id, sums.name, sums.recorded, sums.computed`
	return r.queryDrift(ctx, query)
}

func (r *ItemRepo) queryDrift(ctx context.Context, query string) ([]entity.StockDrift, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, classify("stock drift", err)
	}
	defer rows.Close()
	var out []entity.StockDrift
	for rows.Next() {
		var d entity.StockDrift
		if err := rows.Scan(&d.ItemID, &d.ItemName, &d.Recorded, &d.Computed); err != nil {
			return nil, classify("scan drift", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListCritical insumos con umbral > 0 y total_stock <= umbral. coverage_pct es NUMERIC.
func (r *ItemRepo) ListCritical(ctx context.Context) ([]repository.CriticalItem, error) {
	query := `
		SELECT i.id, i.name, i.product_code, i.total_stock, i.critical_threshold,
		       ROUND(i.total_stock::numeric * 100 / i.critical_threshold, 4) AS coverage_pct,
		       (SELECT MIN(b.expiry_date) FROM batches b WHERE b.item_id = i.id AND b.stock > 0) AS nearest_expiry
		FROM items i
		WHERE i.critical_threshold > 0 AND i.total_stock <= i.critical_threshold
		ORDER BY coverage_pct, i.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("critical items: %w", err)
	}
	defer rows.Close()
	var out []repository.CriticalItem
	for rows.Next() {
		var c repository.CriticalItem
		if err := rows.Scan(&c.ItemID, &c.Name, &c.ProductCode, &c.TotalStock, &c.CriticalThreshold, &c.CoveragePct, &c.NearestExpiry); err != nil {
			return nil, fmt.Errorf("scan critical item: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
