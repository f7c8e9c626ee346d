package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/drehill/site-api/internal/domain"
)

// OTPStore is the default single-process OTP store: a mutex-guarded map
// keyed by subject. CompareAndDelete is the atomic check-and-consume step,
// so two concurrent verifications of the same code cannot both succeed.
type OTPStore struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewOTPStore() *OTPStore {
	return &OTPStore{records: make(map[string]domain.OTPRecord)}
}

// Put stores the record, overwriting any pending one for the same subject.
func (s *OTPStore) Put(_ context.Context, rec *domain.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Subject] = *rec
	return nil
}

func (s *OTPStore) Get(_ context.Context, subject string) (*domain.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[subject]
	if !ok {
		return nil, fmt.Errorf("no pending code: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (s *OTPStore) Delete(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, subject)
	return nil
}

// CompareAndDelete removes the record only when the submitted code matches
// the stored one. The comparison is constant-time with respect to the stored
// code. Returns ErrNotFound when no record exists (including when a
// concurrent call already consumed it) and ErrUnauthorized on mismatch,
// leaving the record in place.
func (s *OTPStore) CompareAndDelete(_ context.Context, subject, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[subject]
	if !ok {
		return fmt.Errorf("no pending code: %w", domain.ErrNotFound)
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return fmt.Errorf("code mismatch: %w", domain.ErrUnauthorized)
	}
	delete(s.records, subject)
	return nil
}
