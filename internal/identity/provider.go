package identity

import (
	"context"
	"errors"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrNotSignedIn        = errors.New("no identity is signed in")
)

// Provider supplies the current signed-in identity (or none) and a guest
// fallback. Consumers define this interface; the concrete provider is an
// external collaborator.
type Provider interface {
	Current() *domain.Identity
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	CreateGuest() *domain.Identity

	// OnChange registers a callback invoked whenever the active identity
	// changes. The returned function unsubscribes the callback.
	OnChange(fn func(*domain.Identity)) (unsubscribe func())
}
