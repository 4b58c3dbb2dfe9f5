package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStaffAuthDisabled = errors.New("staff actions are disabled: no password configured")
	ErrWrongPassword     = errors.New("wrong staff password")
)

// StaffAuth guards availability toggles with one shared password per site.
type StaffAuth struct {
	hash     []byte
	throttle *LoginThrottle
}

// NewStaffAuth takes the bcrypt hash from config. An empty hash disables
// every staff action.
func NewStaffAuth(hash string) *StaffAuth {
	return &StaffAuth{hash: []byte(hash), throttle: NewLoginThrottle()}
}

func (a *StaffAuth) Enabled() bool {
	return len(a.hash) > 0
}

// Check verifies password for the client identified by key. While key is
// cooling down it returns *ThrottleError without checking the password.
func (a *StaffAuth) Check(key, password string) error {
	if !a.Enabled() {
		return ErrStaffAuthDisabled
	}
	if wait := a.throttle.WaitSeconds(key); wait > 0 {
		return &ThrottleError{WaitSeconds: wait}
	}
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		a.throttle.RecordFailed(key)
		return ErrWrongPassword
	}
	a.throttle.RecordSuccess(key)
	return nil
}

func HashStaffPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
