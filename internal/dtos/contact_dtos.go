package dtos

// RegisterContactRequest is the body for POST /contacts/register.
type RegisterContactRequest struct {
	Name        string  `json:"name" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	HeadshotURL *string `json:"headshot_url,omitempty" validate:"omitempty,url"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	BrandQueue  *string `json:"brand_queue,omitempty"`
	ReferredBy  *string `json:"referred_by,omitempty"`
}

type RegisterContactResponse struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type SendVerificationRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type ConfirmVerificationRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type ConfirmVerificationResponse struct {
	Message   string `json:"message"`
	ContactID string `json:"contact_id"`
}

// MessageResponse is the generic {"message": ...} body.
type MessageResponse struct {
	Message string `json:"message"`
}
