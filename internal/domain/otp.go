package domain

// RoleAdmin is the only role this system issues.
const RoleAdmin = "admin"

// OTPRecord is one pending login code for a subject. At most one record is
// live per subject; issuing a new code overwrites the previous one.
// ExpiresAt is a Unix timestamp, also used as DynamoDB TTL when the durable
// store backs the record.
type OTPRecord struct {
	Subject   string `json:"subject" dynamodbav:"subject"`
	Code      string `json:"-" dynamodbav:"code"`
	IssuedAt  int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
