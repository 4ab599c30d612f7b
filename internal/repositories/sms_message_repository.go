package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
)

// SMSMessageRepository is the append-only SMS log.
type SMSMessageRepository interface {
	Create(ctx context.Context, m *models.SMSMessage) error
	// UpsertStatusBySID sets status and error_code (when given) on the row
	// owning sid and appends entry to its logs, creating the row if absent.
	UpsertStatusBySID(ctx context.Context, sid string, status *string, entry models.SMSStatusLogEntry) error
	GetByProviderSID(ctx context.Context, sid string) (*models.SMSMessage, error)
	ListByRecipient(ctx context.Context, to string) ([]*models.SMSMessage, error)
}

type smsMessageRepo struct {
	db DB
}

func NewSMSMessageRepository(db DB) SMSMessageRepository {
	return &smsMessageRepo{db: db}
}

// Create inserts the send record. When a status callback already created a
// row for the same provider sid, the send details are merged into it and the
// callback's status and logs are kept; m.ID is set to the surviving row.
func (r *smsMessageRepo) Create(ctx context.Context, m *models.SMSMessage) error {
	logs, err := marshalLogs(m.Logs)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, `
        INSERT INTO sms_messages (
            id,to_phone,body,purpose,status,provider_message_sid,
            error_code,error_message,logs,created_at,updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::jsonb,NOW(),NOW())
        ON CONFLICT (provider_message_sid) DO UPDATE
        SET to_phone=EXCLUDED.to_phone,
            body=EXCLUDED.body,
            purpose=EXCLUDED.purpose,
            error_message=COALESCE(EXCLUDED.error_message, sms_messages.error_message),
            status=COALESCE(sms_messages.status, EXCLUDED.status),
            error_code=COALESCE(sms_messages.error_code, EXCLUDED.error_code),
            logs=sms_messages.logs || EXCLUDED.logs,
            updated_at=NOW()
        RETURNING id
    `,
		m.ID, m.To, m.Body, m.Purpose, m.Status, m.ProviderMessageSID,
		m.ErrorCode, m.ErrorMessage, logs,
	).Scan(&m.ID)
}

func (r *smsMessageRepo) UpsertStatusBySID(
	ctx context.Context,
	sid string,
	status *string,
	entry models.SMSStatusLogEntry,
) error {
	logs, err := marshalLogs([]models.SMSStatusLogEntry{entry})
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO sms_messages (id,provider_message_sid,status,error_code,logs,created_at,updated_at)
        VALUES ($1,$2,$3,$4,$5::jsonb,NOW(),NOW())
        ON CONFLICT (provider_message_sid) DO UPDATE
        SET status=COALESCE(EXCLUDED.status, sms_messages.status),
            error_code=COALESCE(EXCLUDED.error_code, sms_messages.error_code),
            logs=sms_messages.logs || EXCLUDED.logs,
            updated_at=NOW()
    `, uuid.New(), sid, status, entry.ErrorCode, logs)
	return err
}

func (r *smsMessageRepo) GetByProviderSID(ctx context.Context, sid string) (*models.SMSMessage, error) {
	row := r.db.QueryRow(ctx, baseSelectSMSMessage()+" WHERE provider_message_sid=$1", sid)
	return scanSMSMessage(row)
}

func (r *smsMessageRepo) ListByRecipient(ctx context.Context, to string) ([]*models.SMSMessage, error) {
	rows, err := r.db.Query(ctx, baseSelectSMSMessage()+" WHERE to_phone=$1 ORDER BY created_at ASC", to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SMSMessage
	for rows.Next() {
		m, err := scanSMSMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func baseSelectSMSMessage() string {
	return `
    SELECT
        id,to_phone,body,purpose,status,provider_message_sid,
        error_code,error_message,logs,created_at,updated_at
    FROM sms_messages`
}

func scanSMSMessage(row pgx.Row) (*models.SMSMessage, error) {
	var m models.SMSMessage
	var purpose, status *string
	var logs []byte

	err := row.Scan(
		&m.ID, &m.To, &m.Body, &purpose, &status, &m.ProviderMessageSID,
		&m.ErrorCode, &m.ErrorMessage, &logs, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if purpose != nil {
		p := models.SMSPurpose(*purpose)
		m.Purpose = &p
	}
	if status != nil {
		s := models.SMSStatus(*status)
		m.Status = &s
	}
	if len(logs) > 0 {
		if err := json.Unmarshal(logs, &m.Logs); err != nil {
			return nil, fmt.Errorf("decode sms_messages.logs: %w", err)
		}
	}
	return &m, nil
}

func marshalLogs(entries []models.SMSStatusLogEntry) (string, error) {
	if entries == nil {
		entries = []models.SMSStatusLogEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
