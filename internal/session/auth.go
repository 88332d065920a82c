package session

import (
	"context"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/credentials"
	"github.com/gadgetloop/storefront/internal/errors"
)

// loginRequest is the authentication call payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued bearer credential.
type loginResponse struct {
	Token string `json:"token"`
}

// SignupRequest is the account-creation payload.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Authenticate performs the remote login call, persists the issued
// credential, and resolves the profile.
//
// The credential is persisted as soon as the backend issues it, before the
// profile fetch: a profile fetch that fails right after a successful login
// leaves the token stored and the session unresolved, so a later Bootstrap
// can still recover it.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	if err := s.client.Post(ctx, api.PathLogin, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, errors.New(errors.ErrCodeLoginFailed, "login succeeded but the backend issued no token")
	}

	s.client.SetToken(resp.Token)

	user, err := s.fetchUser(ctx)
	if err != nil {
		s.mu.Lock()
		saveErr := s.creds.Save(credentials.Credentials{Token: resp.Token, Email: email})
		s.mu.Unlock()
		if saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	if err := s.Login(resp.Token, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates a new account. The backend does not issue a credential on
// signup; callers authenticate separately afterward.
func (s *Store) Signup(ctx context.Context, req SignupRequest) error {
	if req.Role == "" {
		req.Role = RoleBuyer
	}
	return s.client.Post(ctx, api.PathSignup, req, nil)
}
