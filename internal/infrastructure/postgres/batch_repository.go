package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchJoinColumns = `b.id, b.item_id, b.lot_number, b.expiry_date, b.received_date, b.stock, i.name, i.product_code`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.ItemID, &b.LotNumber, &b.ExpiryDate, &b.ReceivedDate, &b.Stock, &b.ItemName, &b.ItemCode)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetOrCreate inserta el lote o, si (item_id, lot_number) ya existe, toma la fila existente.
// ON CONFLICT DO UPDATE resuelve la carrera en la BD: el perdedor obtiene la fila del ganador.
// Un vencimiento nulo nunca pisa uno registrado.
func (r *BatchRepo) GetOrCreate(ctx context.Context, itemID int64, lotNumber string, expiry *time.Time) (*entity.Batch, bool, error) {
	query := `
		INSERT INTO batches (item_id, lot_number, expiry_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, lot_number) DO UPDATE
			SET expiry_date = COALESCE(EXCLUDED.expiry_date, batches.expiry_date)
		RETURNING id, item_id, lot_number, expiry_date, received_date, stock, (xmax = 0) AS created`
	var b entity.Batch
	var created bool
	err := r.q.QueryRow(ctx, query, itemID, lotNumber, expiry).Scan(
		&b.ID, &b.ItemID, &b.LotNumber, &b.ExpiryDate, &b.ReceivedDate, &b.Stock, &created,
	)
	if err != nil {
		return nil, false, classify("get or create batch", err)
	}
	return &b, created, nil
}

// GetByID obtiene un lote con datos del insumo; nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id int64) (*entity.Batch, error) {
	query := `SELECT ` + batchJoinColumns + ` FROM batches b JOIN items i ON i.id = b.item_id WHERE b.id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ItemIDs devuelve batchID → itemID de los lotes existentes.
func (r *BatchRepo) ItemIDs(ctx context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, item_id FROM batches WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, classify("batch owners", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, itemID int64
		if err := rows.Scan(&id, &itemID); err != nil {
			return nil, classify("batch owners", err)
		}
		out[id] = itemID
	}
	if err := rows.Err(); err != nil {
		return nil, classify("batch owners", err)
	}
	return out, nil
}

// LockForUpdate bloquea los lotes en orden ascendente de id (FOR UPDATE OF b: la fila
// del insumo ya se bloqueó antes).
func (r *BatchRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Batch, error) {
	out := make(map[int64]*entity.Batch, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + batchJoinColumns + `
		FROM batches b JOIN items i ON i.id = b.item_id
		WHERE b.id = ANY($1)
		ORDER BY b.id
		FOR UPDATE OF b`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, classify("lock batches", err)
	}
	defer rows.Close()
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, classify("lock batches", err)
		}
		out[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, classify("lock batches", err)
	}
	return out, nil
}

// ApplyDelta decremento/incremento condicional en una sola sentencia: sin filas afectadas
// significa que el stock quedaría negativo.
func (r *BatchRepo) ApplyDelta(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE batches SET stock = stock + $2
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`
	var stock int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("apply batch delta %d: %w", id, domain.ErrInsufficientStock)
		}
		return 0, classify("apply batch delta", err)
	}
	return stock, nil
}

// ListAvailable lotes con stock > 0 por vencimiento ascendente, sin fecha al final.
func (r *BatchRepo) ListAvailable(ctx context.Context, itemID int64) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchJoinColumns + `
		FROM batches b JOIN items i ON i.id = b.item_id
		WHERE b.item_id = $1 AND b.stock > 0
		ORDER BY b.expiry_date ASC NULLS LAST, b.id`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
