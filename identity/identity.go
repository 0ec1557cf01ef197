package identity

import (
	"context"

	"github.com/w-h-a/culturelog/culture"
)

// Identity is the identity provider capability. SignInInteractive stands in
// for the hosted popup flow; Verify resolves a bearer token at the HTTP
// boundary, where no interactive flow exists.
type Identity interface {
	SignInInteractive(ctx context.Context) (culture.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (culture.User, bool)
	OnAuthChange(fn func(user culture.User, signedIn bool))
	Verify(ctx context.Context, token string) (culture.User, error)
}
