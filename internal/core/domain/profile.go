package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// UserType selects which profile table a registration provisions into.
type UserType string

const (
	UserTypeFreelancer UserType = "freelancer"
	UserTypeEmployer   UserType = "employer"
)

// Valid reports whether t names a provisionable profile table.
func (t UserType) Valid() bool {
	return t == UserTypeFreelancer || t == UserTypeEmployer
}

// Table returns the profile table backing t.
func (t UserType) Table() string {
	if t == UserTypeEmployer {
		return "employer_profiles"
	}
	return "freelancer_profiles"
}

var (
	ErrValidation      = errors.New("validation failed")
	ErrDataStore       = errors.New("data store error")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// ProfileData is the free-form attribute bag supplied at registration.
type ProfileData map[string]any

// String returns the value at key when it is a string.
func (d ProfileData) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Attributes returns every key except the columns stored on the row itself.
func (d ProfileData) Attributes() map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		switch k {
		case "user_id", "full_name", "display_name", "id", "created_at", "updated_at":
			continue
		}
		out[k] = v
	}
	return out
}

// ProfileRecord is one row of freelancer_profiles or employer_profiles.
type ProfileRecord struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserType    UserType       `json:"user_type"`
	FullName    string         `json:"full_name"`
	DisplayName string         `json:"display_name"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DataStoreError carries the structured fields reported by the relational store.
type DataStoreError struct {
	Op      string `json:"op"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code,omitempty"`
	Cause   error  `json:"-"`
}

func (e *DataStoreError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return e.Op + ": " + msg
}

func (e *DataStoreError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDataStore}
	}
	return []error{ErrDataStore, e.Cause}
}

// Describe returns the most useful human-readable text for e: the store
// message, then the detail, then the cause, then a serialized form.
func (e *DataStoreError) Describe() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		if msg := e.Cause.Error(); msg != "" {
			return msg
		}
	}
	if b, err := json.Marshal(e); err == nil && string(b) != "{}" {
		return string(b)
	}
	return ""
}

// ProvisioningError reports a registration whose profile could not be
// created. Message is the client-facing text; Err carries ErrValidation or
// ErrDataStore.
type ProvisioningError struct {
	Message string
	Err     error
}

func (e *ProvisioningError) Error() string {
	return "profile provisioning failed: " + e.Message
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// ProvisioningOutcome labels the result of one provisioning attempt.
type ProvisioningOutcome string

const (
	OutcomeCreated  ProvisioningOutcome = "created"
	OutcomeExisting ProvisioningOutcome = "existing"
	OutcomeInvalid  ProvisioningOutcome = "invalid"
	OutcomeFailed   ProvisioningOutcome = "failed"
)

// ProvisioningEvent is an audit record of a provisioning attempt.
type ProvisioningEvent struct {
	UserID     string              `json:"user_id" bson:"user_id"`
	UserType   UserType            `json:"user_type" bson:"user_type"`
	Outcome    ProvisioningOutcome `json:"outcome" bson:"outcome"`
	Error      string              `json:"error,omitempty" bson:"error,omitempty"`
	RecordedAt time.Time           `json:"recorded_at" bson:"recorded_at"`
}
