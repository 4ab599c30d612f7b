package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

const (
	MsgContactExistsResent = "Contact exists, verification re-sent"
	MsgRegistrationSent    = "Registration received. Verification sent."
	MsgVerificationSent    = "Verification sent"
	MsgPhoneVerified       = "Phone verified"
	MsgContactNotFound     = "Contact not found"
	MsgInvalidCode         = "Invalid verification code"

	referralCodeLength = 8
)

func verificationSMSBody(code string) string {
	return fmt.Sprintf("Anomaly verification code: %s", code)
}

// ContactService owns the contact verification lifecycle:
// unregistered -> pending (code outstanding) -> verified.
type ContactService interface {
	Register(ctx context.Context, req dtos.RegisterContactRequest) (*dtos.RegisterContactResponse, error)
	SendVerification(ctx context.Context, phone string) error
	ConfirmVerification(ctx context.Context, phone, code string) (string, error)
	List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
	gateway     SMSGateway
	newCode     func() (string, error)
}

func NewContactService(
	contactRepo repositories.ContactRepository,
	gateway SMSGateway,
	cfg *config.Config,
) ContactService {
	length := cfg.VerificationCodeLength
	if length <= 0 {
		length = config.VerificationCodeLength
	}
	return &contactService{
		contactRepo: contactRepo,
		gateway:     gateway,
		newCode: func() (string, error) {
			return utils.RandomNumericString(length)
		},
	}
}

func (s *contactService) Register(
	ctx context.Context,
	req dtos.RegisterContactRequest,
) (*dtos.RegisterContactResponse, error) {
	phone := utils.NormalizePhone(req.Phone)

	existing, err := s.contactRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.resendExisting(ctx, existing)
	}

	brand := models.BrandQueueAnomaly
	if req.BrandQueue != nil && strings.TrimSpace(*req.BrandQueue) != "" {
		brand = models.BrandQueue(strings.ToLower(strings.TrimSpace(*req.BrandQueue)))
		if brand != models.BrandQueueAnomaly && brand != models.BrandQueueArcane {
			return nil, utils.NewValidationError("brand_queue must be anomaly or arcane", nil)
		}
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}
	referral, err := utils.RandomString(referralCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate referral code: %w", err)
	}
	sentAt := time.Now().UTC()

	contact := &models.Contact{
		ID:                     uuid.New(),
		Name:                   strings.TrimSpace(req.Name),
		Phone:                  phone,
		Email:                  req.Email,
		HeadshotURL:            req.HeadshotURL,
		City:                   req.City,
		State:                  req.State,
		Segment:                utils.SegmentForState(req.State),
		BrandQueue:             brand,
		Status:                 models.ContactStatusPending,
		PhoneVerified:          false,
		ReferralCode:           utils.Ptr(strings.ToUpper(referral)),
		ReferredBy:             req.ReferredBy,
		VerificationCode:       &code,
		VerificationCodeSentAt: &sentAt,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		if !errors.Is(err, utils.ErrPhoneExists) {
			return nil, err
		}
		// A concurrent registration inserted this phone first.
		winner, getErr := s.contactRepo.GetByPhone(ctx, phone)
		if getErr != nil {
			return nil, getErr
		}
		if winner == nil {
			return nil, fmt.Errorf("contact for %s vanished after conflicting insert", phone)
		}
		return s.resendExisting(ctx, winner)
	}

	utils.Logger.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"segment":    contact.Segment,
		"brand":      contact.BrandQueue,
	}).Info("Contact registered")

	s.gateway.Send(ctx, phone, verificationSMSBody(code), models.SMSPurposeVerify)

	return &dtos.RegisterContactResponse{
		ID:      contact.ID.String(),
		Phone:   phone,
		Message: MsgRegistrationSent,
	}, nil
}

func (s *contactService) resendExisting(
	ctx context.Context,
	contact *models.Contact,
) (*dtos.RegisterContactResponse, error) {
	if err := s.issueCode(ctx, contact); err != nil {
		return nil, err
	}
	return &dtos.RegisterContactResponse{
		ID:      contact.ID.String(),
		Phone:   contact.Phone,
		Message: MsgContactExistsResent,
	}, nil
}

// issueCode replaces the outstanding code and texts it. Only the latest
// code is ever valid.
func (s *contactService) issueCode(ctx context.Context, contact *models.Contact) error {
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	if err := s.contactRepo.SetVerificationCode(ctx, contact.ID, code); err != nil {
		if errors.Is(err, utils.ErrContactNotFound) {
			return utils.NewNotFoundError(MsgContactNotFound, err)
		}
		return err
	}
	s.gateway.Send(ctx, contact.Phone, verificationSMSBody(code), models.SMSPurposeVerify)
	return nil
}

func (s *contactService) SendVerification(ctx context.Context, phone string) error {
	contact, err := s.contactRepo.GetByPhone(ctx, utils.NormalizePhone(phone))
	if err != nil {
		return err
	}
	if contact == nil {
		return utils.NewNotFoundError(MsgContactNotFound, utils.ErrContactNotFound)
	}
	return s.issueCode(ctx, contact)
}

func (s *contactService) ConfirmVerification(ctx context.Context, phone, code string) (string, error) {
	contact, err := s.contactRepo.GetByPhone(ctx, utils.NormalizePhone(phone))
	if err != nil {
		return "", err
	}
	if contact == nil {
		verificationAttemptsTotal.WithLabelValues("not_found").Inc()
		return "", utils.NewNotFoundError(MsgContactNotFound, utils.ErrContactNotFound)
	}

	if contact.VerificationCode == nil || *contact.VerificationCode != code {
		verificationAttemptsTotal.WithLabelValues("invalid_code").Inc()
		return "", utils.NewInvalidCodeError(MsgInvalidCode)
	}

	if err := s.contactRepo.MarkPhoneVerified(ctx, contact.ID); err != nil {
		if errors.Is(err, utils.ErrContactNotFound) {
			return "", utils.NewNotFoundError(MsgContactNotFound, err)
		}
		return "", err
	}

	verificationAttemptsTotal.WithLabelValues("verified").Inc()
	utils.Logger.WithField("contact_id", contact.ID).Info("Contact phone verified")
	return contact.ID.String(), nil
}

func (s *contactService) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	contacts, err := s.contactRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, nil
}
