package domain

import "time"

// Subscriber is one mailing-list entry, keyed by email.
type Subscriber struct {
	Email     string    `json:"email" dynamodbav:"email"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
