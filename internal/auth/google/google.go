// Package google implements the remote auth contract on top of the Google
// Identity Toolkit API, the REST surface behind Firebase email/password
// authentication.
package google

import (
	"context"
	"fmt"
	"sync"

	"worktracker/internal/auth"
	"worktracker/internal/core"

	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Client talks to the Identity Toolkit relying-party endpoints with an API
// key, the same credential a browser client would use.
type Client struct {
	svc *identitytoolkit.Service

	mu      sync.Mutex
	idToken string
}

func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("identity api key is empty")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create identitytoolkit service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (auth.Identity, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return auth.Identity{}, fmt.Errorf("verify password: %w", err)
	}

	c.mu.Lock()
	c.idToken = resp.IdToken
	c.mu.Unlock()

	return auth.Identity{
		UID:   resp.LocalId,
		Email: resp.Email,
		Name:  resp.DisplayName,
	}, nil
}

func (c *Client) Profile(ctx context.Context, uid string) (auth.Profile, error) {
	resp, err := c.svc.Relyingparty.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		LocalId: []string{uid},
	}).Context(ctx).Do()
	if err != nil {
		return auth.Profile{}, fmt.Errorf("get account info: %w", err)
	}
	if len(resp.Users) == 0 {
		return auth.Profile{}, fmt.Errorf("no account for uid %s", uid)
	}

	// Identity Toolkit has no role concept; remote identities default to
	// the plain user role and get upgraded from the local record.
	return auth.Profile{
		Name: resp.Users[0].DisplayName,
		Role: core.RoleUser,
	}, nil
}

// SignOut disposes of the cached token. The REST surface has no
// server-side sign-out; token disposal is what the browser SDK does too.
func (c *Client) SignOut(context.Context) error {
	c.mu.Lock()
	c.idToken = ""
	c.mu.Unlock()
	return nil
}
