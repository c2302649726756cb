package kernel

import (
	"strings"

	"relay/internal/pkg/errs"
	"relay/internal/pkg/guard"
)

var (
	ErrDisplayNameIsRequired    = errs.NewValueIsRequiredError("display name")
	ErrIdentityIsNotConstructed = errs.NewValueIsRequiredError("identity must be created via NewIdentity")
)

// Identity is the display record of a sender, recipient or mover. Only the
// display name is mandatory; a recipient without any contact channel is valid.
type Identity struct {
	displayName string
	photoURL    *string
	email       *string
	phone       *string
	guard       guard.ConstructorGuard
}

// NewIdentity builds an Identity. Empty optional fields are stored as absent.
func NewIdentity(displayName, photoURL, email, phone string) (Identity, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Identity{}, ErrDisplayNameIsRequired
	}

	return Identity{
		displayName: displayName,
		photoURL:    optional(photoURL),
		email:       optional(email),
		phone:       optional(phone),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (i Identity) Validate() error {
	return i.guard.Validate(ErrIdentityIsNotConstructed)
}

func (i Identity) DisplayName() string {
	return i.displayName
}

func (i Identity) PhotoURL() *string {
	return i.photoURL
}

func (i Identity) Email() *string {
	return i.email
}

func (i Identity) Phone() *string {
	return i.phone
}

// HasContactChannel reports whether the identity can be reached by email or phone.
func (i Identity) HasContactChannel() bool {
	return i.email != nil || i.phone != nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
