package dto

import (
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// ContactRequest is a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactResponse represents a stored contact message
type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactSubmittedResponse acknowledges a submission
type ContactSubmittedResponse struct {
	Message string           `json:"message"`
	Contact *ContactResponse `json:"contact"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *domain.Contact) *ContactResponse {
	return &ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

// ToContactResponseList converts a list of domain Contacts to ContactResponse list
func ToContactResponseList(contacts []*domain.Contact) []*ContactResponse {
	responses := make([]*ContactResponse, len(contacts))
	for i, c := range contacts {
		responses[i] = ToContactResponse(c)
	}
	return responses
}
