package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

type ContactRepository interface {
	// Create inserts c. It returns utils.ErrPhoneExists when another
	// contact already owns c.Phone.
	Create(ctx context.Context, c *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	GetByPhone(ctx context.Context, phone string) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error)

	SetVerificationCode(ctx context.Context, id uuid.UUID, code string) error
	MarkPhoneVerified(ctx context.Context, id uuid.UUID) error
	ClearVerificationCodesSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type contactRepo struct {
	db DB
}

func NewContactRepository(db DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, c *models.Contact) error {
	tag, err := r.db.Exec(ctx, `
        INSERT INTO contacts (
            id,name,phone,email,headshot_url,city,state,
            segment,brand_queue,status,phone_verified,
            referral_code,referred_by,
            verification_code,verification_code_sent_at,
            created_at,updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,
            $8,$9,$10,$11,
            $12,$13,
            $14,$15,
            NOW(),NOW()
        )
        ON CONFLICT (phone) DO NOTHING
    `,
		c.ID, c.Name, c.Phone, c.Email, c.HeadshotURL, c.City, c.State,
		c.Segment, string(c.BrandQueue), string(c.Status), c.PhoneVerified,
		c.ReferralCode, c.ReferredBy,
		c.VerificationCode, c.VerificationCodeSentAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrPhoneExists
	}
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	row := r.db.QueryRow(ctx, baseSelectContact()+" WHERE id=$1", id)
	return scanContact(row)
}

func (r *contactRepo) GetByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	row := r.db.QueryRow(ctx, baseSelectContact()+" WHERE phone=$1", phone)
	return scanContact(row)
}

func (r *contactRepo) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, "status=$"+strconv.Itoa(len(args)))
	}
	if filter.BrandQueue != nil {
		args = append(args, *filter.BrandQueue)
		where = append(where, "brand_queue=$"+strconv.Itoa(len(args)))
	}

	q := baseSelectContact()
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactRepo) SetVerificationCode(ctx context.Context, id uuid.UUID, code string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE contacts
        SET verification_code=$1,
            verification_code_sent_at=NOW(),
            updated_at=NOW()
        WHERE id=$2
    `, code, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrContactNotFound
	}
	return nil
}

func (r *contactRepo) MarkPhoneVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE contacts
        SET phone_verified=TRUE,
            verification_code=NULL,
            verification_code_sent_at=NULL,
            updated_at=NOW()
        WHERE id=$1
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrContactNotFound
	}
	return nil
}

func (r *contactRepo) ClearVerificationCodesSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE contacts
        SET verification_code=NULL,
            verification_code_sent_at=NULL,
            updated_at=NOW()
        WHERE verification_code IS NOT NULL
          AND verification_code_sent_at < $1
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func baseSelectContact() string {
	return `
    SELECT
        id,name,phone,email,headshot_url,city,state,
        segment,brand_queue,status,phone_verified,
        referral_code,referred_by,
        verification_code,verification_code_sent_at,
        created_at,updated_at
    FROM contacts`
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	var brand, status string

	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.HeadshotURL, &c.City, &c.State,
		&c.Segment, &brand, &status, &c.PhoneVerified,
		&c.ReferralCode, &c.ReferredBy,
		&c.VerificationCode, &c.VerificationCodeSentAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	c.BrandQueue = models.BrandQueue(brand)
	c.Status = models.ContactStatus(status)
	return &c, nil
}
