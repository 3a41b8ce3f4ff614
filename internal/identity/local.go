package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type account struct {
	id       string
	email    string
	password string
}

// LocalProvider keeps accounts in memory. It stands in for a hosted
// identity service behind the same Provider interface.
type LocalProvider struct {
	mu        sync.RWMutex
	current   *domain.Identity
	accounts  map[string]account // keyed by email
	listeners map[int]func(*domain.Identity)
	nextSub   int
	logger    *zap.Logger
}

func NewLocalProvider(logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		accounts:  make(map[string]account),
		listeners: make(map[int]func(*domain.Identity)),
		logger:    logger,
	}
}

func (p *LocalProvider) Current() *domain.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	cur := *p.current
	return &cur
}

func (p *LocalProvider) SignUp(_ context.Context, email, password string) (*domain.Identity, error) {
	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, ErrEmailTaken
	}

	acc := account{
		id:       uuid.NewString(),
		email:    email,
		password: password,
	}
	p.accounts[email] = acc
	id := &domain.Identity{ID: acc.id, Email: acc.email}
	p.current = id
	p.mu.Unlock()

	p.logger.Info("identity signed up", zap.String("identity_id", acc.id))
	p.notify(id)
	return id, nil
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*domain.Identity, error) {
	p.mu.Lock()
	acc, exists := p.accounts[email]
	if !exists || acc.password != password {
		p.mu.Unlock()
		return nil, ErrInvalidCredentials
	}

	id := &domain.Identity{ID: acc.id, Email: acc.email}
	p.current = id
	p.mu.Unlock()

	p.logger.Info("identity signed in", zap.String("identity_id", acc.id))
	p.notify(id)
	return id, nil
}

func (p *LocalProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return ErrNotSignedIn
	}
	p.current = nil
	p.mu.Unlock()

	p.logger.Info("identity signed out")
	p.notify(nil)
	return nil
}

// CreateGuest mints a throwaway identity so checkout never blocks on a
// sign-in. Guest ids use uuid rather than a timestamp so rapid guest
// creation cannot collide.
func (p *LocalProvider) CreateGuest() *domain.Identity {
	id := &domain.Identity{
		ID:      fmt.Sprintf("guest-%s", uuid.NewString()),
		IsGuest: true,
	}

	p.mu.Lock()
	p.current = id
	p.mu.Unlock()

	p.logger.Info("guest identity created", zap.String("identity_id", id.ID))
	p.notify(id)
	return id
}

func (p *LocalProvider) OnChange(fn func(*domain.Identity)) func() {
	p.mu.Lock()
	sub := p.nextSub
	p.nextSub++
	p.listeners[sub] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, sub)
		p.mu.Unlock()
	}
}

// notify invokes listeners outside the lock so a callback can call back
// into the provider without deadlocking.
func (p *LocalProvider) notify(id *domain.Identity) {
	p.mu.RLock()
	fns := make([]func(*domain.Identity), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		var cur *domain.Identity
		if id != nil {
			c := *id
			cur = &c
		}
		fn(cur)
	}
}
