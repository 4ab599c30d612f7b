package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
)

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
}

type eventRepo struct {
	db DB
}

func NewEventRepository(db DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e *models.Event) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO events (
            id,name,event_date,type,flyer_url,gate_code,ticket_price,status,
            created_at,updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
    `,
		e.ID, e.Name, e.Date, string(e.Type), e.FlyerURL, e.GateCode, e.TicketPrice, string(e.Status),
	)
	return err
}

func (r *eventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := r.db.QueryRow(ctx, baseSelectEvent()+" WHERE id=$1", id)
	return scanEvent(row)
}

func (r *eventRepo) List(ctx context.Context) ([]*models.Event, error) {
	rows, err := r.db.Query(ctx, baseSelectEvent()+" ORDER BY event_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func baseSelectEvent() string {
	return `
    SELECT
        id,name,event_date,type,flyer_url,gate_code,ticket_price,status,
        created_at,updated_at
    FROM events`
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var typ, status string

	err := row.Scan(
		&e.ID, &e.Name, &e.Date, &typ, &e.FlyerURL, &e.GateCode, &e.TicketPrice, &status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Type = models.EventType(typ)
	e.Status = models.EventStatus(status)
	return &e, nil
}
