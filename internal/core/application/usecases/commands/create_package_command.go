package commands

import (
	"errors"
	"strings"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/pkg/guard"
)

var (
	ErrCreatePackageCommandIsNotConstructed = errors.New(
		"CreatePackageCommand must be created via NewCreatePackageCommand constructor",
	)
	ErrCategoryIsRequired = errors.New("category is required")
	ErrDueDateIsInPast    = errors.New("due date must be after the creation time")
)

// CreatePackageCommand registers a package handed over by its sender at origin.
//
// Example:
//
//	cmd, err := NewCreatePackageCommand(kernel.NewUUID(), userID, CreatePackageParams{
//	    Origin: here, Destination: office, DestinationName: "Office",
//	    DueDate: now.Add(72 * time.Hour), Category: "books",
//	    Sender: alice, Recipient: bob, CreatedAt: now,
//	})
type CreatePackageCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	senderID  kernel.UUID
	params    CreatePackageParams

	guard guard.ConstructorGuard
}

// CreatePackageParams groups the descriptive fields of a new package.
type CreatePackageParams struct {
	Origin          kernel.GeoPoint
	Destination     kernel.GeoPoint
	DestinationName string
	DueDate         time.Time
	Category        string
	Sender          kernel.Identity
	Recipient       kernel.Identity
	CreatedAt       time.Time
}

// NewCreatePackageCommand validates identifiers, category and due date. The
// locations and identities are validated again by the aggregate.
func NewCreatePackageCommand(
	packageID, senderID kernel.UUID,
	params CreatePackageParams,
) (CreatePackageCommand, error) {
	cmd := CreatePackageCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setPackageID(packageID),
		cmd.setSenderID(senderID),
		cmd.setParams(params),
	); err != nil {
		return CreatePackageCommand{}, err
	}

	return cmd, nil
}

func (c CreatePackageCommand) Validate() error {
	return c.guard.Validate(ErrCreatePackageCommandIsNotConstructed)
}

func (c CreatePackageCommand) PackageID() kernel.UUID {
	return c.packageID
}

// SenderID is the authenticated user creating the package; they follow it.
func (c CreatePackageCommand) SenderID() kernel.UUID {
	return c.senderID
}

func (c CreatePackageCommand) Params() CreatePackageParams {
	return c.params
}

func (c *CreatePackageCommand) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.packageID = id
	return nil
}

func (c *CreatePackageCommand) setSenderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.senderID = id
	return nil
}

func (c *CreatePackageCommand) setParams(params CreatePackageParams) error {
	if strings.TrimSpace(params.Category) == "" {
		return ErrCategoryIsRequired
	}
	if !params.DueDate.After(params.CreatedAt) {
		return ErrDueDateIsInPast
	}
	c.params = params
	return nil
}
