// Package auth signs admins in against Supabase Auth (GoTrue).
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
	"go.uber.org/zap"
)

const AdminRole = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("user is not an admin")
)

type User struct {
	ID          string
	Email       string
	Role        string
	AccessToken string
}

type SupabaseClient struct {
	client gotrue.Client
	logger *zap.Logger
}

// NewSupabaseClient points the GoTrue client at <baseURL>/auth/v1 so both
// hosted projects and a local Supabase stack work.
func NewSupabaseClient(baseURL, anonKey string, logger *zap.Logger) *SupabaseClient {
	authURL := strings.TrimRight(baseURL, "/") + "/auth/v1"
	return &SupabaseClient{
		client: gotrue.New("", anonKey).WithCustomAuthURL(authURL),
		logger: logger,
	}
}

// SignInWithPassword exchanges an email and password for a user. Rejected
// credentials return ErrInvalidCredentials.
func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	resp, err := c.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		if code, ok := statusCode(err); ok && (code == http.StatusBadRequest || code == http.StatusUnauthorized) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("auth request failed: %w", err)
	}
	if resp == nil || resp.User.ID == uuid.Nil {
		return User{}, ErrInvalidCredentials
	}

	role, _ := resp.User.UserMetadata["role"].(string)
	return User{
		ID:          resp.User.ID.String(),
		Email:       resp.User.Email,
		Role:        role,
		AccessToken: resp.AccessToken,
	}, nil
}

// SignOut revokes the access token's session at the provider.
func (c *SupabaseClient) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.client.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// AuthenticateAdmin signs in and requires the admin role. A non-admin user is
// signed straight back out.
func (c *SupabaseClient) AuthenticateAdmin(ctx context.Context, email, password string) (User, error) {
	user, err := c.SignInWithPassword(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	if user.Role != AdminRole {
		if err := c.SignOut(ctx, user.AccessToken); err != nil {
			c.logger.Warn("Failed to sign out non-admin user",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
		return User{}, ErrNotAdmin
	}
	return user, nil
}

// statusCode pulls the HTTP status out of auth-go's
// "response status code <n>: <body>" errors.
func statusCode(err error) (int, bool) {
	var code int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &code); scanErr != nil {
		return 0, false
	}
	return code, true
}
