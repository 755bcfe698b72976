package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura sobre el libro de movimientos.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// movementWhere arma el WHERE parametrizado de los filtros. Las fechas comparan por día.
func movementWhere(f repository.MovementFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("m.created_at::date >= $%d::date", *f.From)
	}
	if f.To != nil {
		add("m.created_at::date <= $%d::date", *f.To)
	}
	if f.Type != "" {
		add("m.type = $%d", f.Type)
	}
	if f.ServiceID != nil {
		add("m.destination_service_id = $%d", *f.ServiceID)
	}
	if f.UserID != nil {
		add("m.actor_id = $%d", *f.UserID)
	}
	if f.ItemID != nil {
		add(`EXISTS (
			SELECT 1 FROM movement_lines fl JOIN batches fb ON fb.id = fl.batch_id
			WHERE fl.movement_id = m.id AND fb.item_id = $%d)`, *f.ItemID)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CountMovements total de movimientos que cumplen el filtro (para paginación).
func (r *ReportRepo) CountMovements(ctx context.Context, f repository.MovementFilter) (int, error) {
	where, args := movementWhere(f)
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movements m`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ListMovements página de movimientos, más recientes primero, con sus líneas.
func (r *ReportRepo) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	where, args := movementWhere(f)
	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + movementHeaderColumns + movementHeaderFrom + where +
		fmt.Sprintf(` ORDER BY m.created_at DESC, m.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	var list []*entity.Movement
	var ids []int64
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
		ids = append(ids, m.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	lines, err := loadLines(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		m.Lines = lines[m.ID]
	}
	return list, nil
}
