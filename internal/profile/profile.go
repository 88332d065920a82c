// Package profile is the client for the authenticated profile endpoints.
package profile

import (
	"context"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/errors"
)

// Profile is the full account profile, a superset of the session's user
// identity.
type Profile struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Category   string `json:"category"`
	Avatar     string `json:"avatar"`
	Verified   bool   `json:"verified"`
	VerifiedAs string `json:"verifiedAs,omitempty"`
}

type profileEnvelope struct {
	Data Profile `json:"data"`
}

// nameUpdate renames the account holder.
type nameUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// emailUpdate changes the account email; the current password re-authorizes
// the change.
type emailUpdate struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// passwordUpdate rotates the account password.
type passwordUpdate struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Client performs profile reads and updates. All calls require a session
// credential.
type Client struct {
	api *api.Client
}

// NewClient creates a profile client.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Get fetches the full profile of the logged-in user.
func (c *Client) Get(ctx context.Context) (*Profile, error) {
	if err := c.requireAuth("profile read"); err != nil {
		return nil, err
	}

	var resp profileEnvelope
	if err := c.api.Get(ctx, api.PathProfile, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateName changes the account holder's name.
func (c *Client) UpdateName(ctx context.Context, firstName, lastName string) error {
	if err := c.requireAuth("name update"); err != nil {
		return err
	}
	return c.api.Put(ctx, api.PathProfileName, nameUpdate{FirstName: firstName, LastName: lastName}, nil)
}

// UpdateEmail changes the account email. The current password must be
// supplied to authorize the change.
func (c *Client) UpdateEmail(ctx context.Context, email, currentPassword string) error {
	if err := c.requireAuth("email update"); err != nil {
		return err
	}
	return c.api.Put(ctx, api.PathProfileEmail, emailUpdate{Email: email, Password: currentPassword}, nil)
}

// UpdatePassword rotates the account password.
func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := c.requireAuth("password update"); err != nil {
		return err
	}
	return c.api.Put(ctx, api.PathProfilePassword, passwordUpdate{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}

func (c *Client) requireAuth(operation string) error {
	if !c.api.HasToken() {
		return errors.NewUnauthenticatedError(operation)
	}
	return nil
}
