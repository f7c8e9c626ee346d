package domain

import "time"

// Submission kinds.
const (
	SubmissionContact     = "contact"
	SubmissionApplication = "application"
	SubmissionBooking     = "booking"
)

// Submission is one stored form submission. All three form kinds share the
// table; kind-specific fields are simply empty for the other kinds.
type Submission struct {
	SubmissionID string    `json:"id" dynamodbav:"submission_id"`
	Kind         string    `json:"kind" dynamodbav:"kind"`
	FullName     string    `json:"fullName" dynamodbav:"full_name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Company      string    `json:"company,omitempty" dynamodbav:"company"`
	Phone        string    `json:"phone,omitempty" dynamodbav:"phone"`
	Country      string    `json:"country,omitempty" dynamodbav:"country"`
	Service      string    `json:"serviceInterest,omitempty" dynamodbav:"service_interest"`
	Message      string    `json:"message,omitempty" dynamodbav:"message"`
	Position     string    `json:"position,omitempty" dynamodbav:"position"`
	ResumeKey    string    `json:"resumeKey,omitempty" dynamodbav:"resume_key"`
	Products     string    `json:"products,omitempty" dynamodbav:"products"`
	Markets      string    `json:"targetMarkets,omitempty" dynamodbav:"target_markets"`
	Experience   string    `json:"experience,omitempty" dynamodbav:"experience"`
	CallTime     string    `json:"preferredTime,omitempty" dynamodbav:"preferred_time"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}

// ContactFormRequest is the body of POST /api/contact/submit-form.
type ContactFormRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	Service  string `json:"serviceInterest"`
	Message  string `json:"message" validate:"required"`
}

// ApplicationRequest is the body of POST /api/contact/submit-application.
// Resume is an optional data URI or bare base64 PDF.
type ApplicationRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Position string `json:"position" validate:"required"`
	Resume   string `json:"resume"`
}

// BookingRequest is the body of POST /api/contact/book-call.
type BookingRequest struct {
	FullName   string `json:"fullName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Products   string `json:"products"`
	Markets    string `json:"targetMarkets"`
	Experience string `json:"experience"`
	CallTime   string `json:"preferredTime"`
}
