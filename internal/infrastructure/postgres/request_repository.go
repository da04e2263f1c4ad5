package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, requester_id, requester_role, lines, observations, status, coordination_status, approved_by, decided_at, created_at, confirmed_at, confirmed_by, rejected_at, rejected_by`

// RequestRepo implementación de RequestRepository sobre PostgreSQL.
// Las líneas se guardan como JSONB en su forma canónica {name, quantity}.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *RequestRepo) Create(request *entity.Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	lines, err := json.Marshal(request.Lines)
	if err != nil {
		return fmt.Errorf("marshal request lines: %w", err)
	}
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(context.Background(), query,
		request.ID, request.RequesterID, request.RequesterRole, lines, request.Observations,
		request.Status, request.CoordinationStatus, nullable(request.ApprovedBy), request.DecidedAt,
		request.CreatedAt, request.ConfirmedAt, nullable(request.ConfirmedBy),
		request.RejectedAt, nullable(request.RejectedBy),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Devuelve nil si no existe.
func (r *RequestRepo) GetByID(id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// List lista solicitudes filtradas por cola, las más recientes primero.
func (r *RequestRepo) List(filter repository.RequestFilter) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	var args []any
	var conds []string
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		conds = append(conds, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CoordinationStatus != "" {
		args = append(args, filter.CoordinationStatus)
		conds = append(conds, fmt.Sprintf("coordination_status = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Update persiste el estado completo de la solicitud (estados, líneas, auditoría).
func (r *RequestRepo) Update(request *entity.Request) error {
	lines, err := json.Marshal(request.Lines)
	if err != nil {
		return fmt.Errorf("marshal request lines: %w", err)
	}
	query := `
		UPDATE requests
		SET lines = $2, observations = $3, status = $4, coordination_status = $5,
		    approved_by = $6, decided_at = $7, confirmed_at = $8, confirmed_by = $9,
		    rejected_at = $10, rejected_by = $11
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		request.ID, lines, request.Observations, request.Status, request.CoordinationStatus,
		nullable(request.ApprovedBy), request.DecidedAt, request.ConfirmedAt, nullable(request.ConfirmedBy),
		request.RejectedAt, nullable(request.RejectedBy),
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	var lines []byte
	var approvedBy, confirmedBy, rejectedBy *string
	if err := row.Scan(
		&req.ID, &req.RequesterID, &req.RequesterRole, &lines, &req.Observations,
		&req.Status, &req.CoordinationStatus, &approvedBy, &req.DecidedAt, &req.CreatedAt,
		&req.ConfirmedAt, &confirmedBy, &req.RejectedAt, &rejectedBy,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &req.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal request lines: %w", err)
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	if confirmedBy != nil {
		req.ConfirmedBy = *confirmedBy
	}
	if rejectedBy != nil {
		req.RejectedBy = *rejectedBy
	}
	return &req, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
