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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL: solo inserción y lectura.
// El trigger movements_immutable rechaza cualquier otra modificación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateHeader inserta el encabezado sin número de documento y completa ID y CreatedAt.
func (r *MovementRepo) CreateHeader(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (type, actor_id, destination_service_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := r.q.QueryRow(ctx, query, m.Type, m.ActorID, m.DestinationServiceID).Scan(&m.ID, &m.CreatedAt); err != nil {
		return classify("insert movement", err)
	}
	return nil
}

// SetDocumentNumber asigna el número una sola vez (document_number IS NULL).
func (r *MovementRepo) SetDocumentNumber(ctx context.Context, movementID int64, documentNumber string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE movements SET document_number = $2 WHERE id = $1 AND document_number IS NULL`,
		movementID, documentNumber)
	if err != nil {
		return classify("set document number", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ConflictError{Op: "set document number", Err: fmt.Errorf("movimiento %d ya tiene número", movementID)}
	}
	return nil
}

// CreateLine inserta una línea y completa su ID.
func (r *MovementRepo) CreateLine(ctx context.Context, line *entity.MovementLine) error {
	query := `
		INSERT INTO movement_lines (movement_id, batch_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, line.MovementID, line.BatchID, line.Quantity).Scan(&line.ID); err != nil {
		return classify("insert movement line", err)
	}
	return nil
}

const movementHeaderColumns = `
	m.id, m.type, m.actor_id, m.created_at, m.destination_service_id, COALESCE(m.document_number, ''),
	u.username, COALESCE(s.name, '')`

const movementHeaderFrom = `
	FROM movements m
	JOIN users u ON u.id = m.actor_id
	LEFT JOIN services s ON s.id = m.destination_service_id`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.Type, &m.ActorID, &m.CreatedAt, &m.DestinationServiceID, &m.DocumentNumber,
		&m.ActorUsername, &m.DestinationServiceName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID devuelve el movimiento con sus líneas, o nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementHeaderColumns+movementHeaderFrom+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	lines, err := loadLines(ctx, r.q, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	m.Lines = lines[m.ID]
	return m, nil
}

// loadLines carga las líneas de varios movimientos con datos de lote e insumo, en orden de inserción.
func loadLines(ctx context.Context, q Querier, movementIDs []int64) (map[int64][]entity.MovementLine, error) {
	out := make(map[int64][]entity.MovementLine, len(movementIDs))
	if len(movementIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT l.id, l.movement_id, l.batch_id, l.quantity, b.item_id, i.name, i.product_code, b.lot_number
		FROM movement_lines l
		JOIN batches b ON b.id = l.batch_id
		JOIN items i ON i.id = b.item_id
		WHERE l.movement_id = ANY($1)
		ORDER BY l.movement_id, l.id`
	rows, err := q.Query(ctx, query, movementIDs)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.BatchID, &l.Quantity, &l.ItemID, &l.ItemName, &l.ItemCode, &l.LotNumber); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		out[l.MovementID] = append(out[l.MovementID], l)
	}
	return out, rows.Err()
}
