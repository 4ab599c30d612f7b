package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

type RsvpRepository interface {
	// Create inserts r. It returns utils.ErrRsvpExists when a record for
	// the same (contact_id, event_id) pair was inserted first.
	Create(ctx context.Context, r *models.Rsvp) error
	GetByPair(ctx context.Context, contactID, eventID string) (*models.Rsvp, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RsvpStatus) error
}

type rsvpRepo struct {
	db DB
}

func NewRsvpRepository(db DB) RsvpRepository {
	return &rsvpRepo{db: db}
}

func (r *rsvpRepo) Create(ctx context.Context, rsvp *models.Rsvp) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO rsvps (
            id,contact_id,event_id,status,qr_code_token,sent_gate_code,
            created_at,updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
    `,
		rsvp.ID, rsvp.ContactID, rsvp.EventID, string(rsvp.Status), rsvp.QRCodeToken, rsvp.SentGateCode,
	)
	if isUniqueViolation(err) {
		return utils.ErrRsvpExists
	}
	return err
}

func (r *rsvpRepo) GetByPair(ctx context.Context, contactID, eventID string) (*models.Rsvp, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id,contact_id,event_id,status,qr_code_token,sent_gate_code,created_at,updated_at
        FROM rsvps
        WHERE contact_id=$1 AND event_id=$2
        LIMIT 1
    `, contactID, eventID)

	var rec models.Rsvp
	var status string
	err := row.Scan(
		&rec.ID, &rec.ContactID, &rec.EventID, &status, &rec.QRCodeToken, &rec.SentGateCode,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Status = models.RsvpStatus(status)
	return &rec, nil
}

func (r *rsvpRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RsvpStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE rsvps SET status=$1, updated_at=NOW() WHERE id=$2`, string(status), id)
	return err
}
