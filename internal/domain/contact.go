package domain

import "time"

// Contact is a message left through the storefront contact form
type Contact struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// NewContact creates a contact message stamped with the current time.
func NewContact(name, email, subject, message string) *Contact {
	return &Contact{
		Name:      name,
		Email:     NormalizeEmail(email),
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
