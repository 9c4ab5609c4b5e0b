// Package session decides whether the held credential is usable, renews it
// when it is not, and tells interested components when it changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/client/token"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

// Slot is the persistent storage of the raw token. token.Store satisfies it.
type Slot interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, raw string) error
	Clear(ctx context.Context) error
}

// Authenticator is the part of the REST API that issues or revokes tokens.
type Authenticator interface {
	Refresh(ctx context.Context) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, form models.Registration) (string, error)
	DeleteAccount(ctx context.Context, raw string) error
}

// Listener receives the new credential, or nil once the slot is cleared.
type Listener func(ctx context.Context, c *token.Credential)

const refreshKey = "refresh"

// Guard owns the token slot. It is safe for concurrent use; at most one
// refresh request is in flight at any time.
type Guard struct {
	slot    Slot
	auth    Authenticator
	log     logging.Logger
	timeout time.Duration
	now     func() time.Time

	flight singleflight.Group

	mu        sync.Mutex
	listeners []Listener
}

func NewGuard(slot Slot, auth Authenticator, log logging.Logger, timeout time.Duration) *Guard {
	return &Guard{
		slot:    slot,
		auth:    auth,
		log:     log.With("component", "session"),
		timeout: timeout,
		now:     time.Now,
	}
}

// OnChange registers fn to run after every credential change.
func (g *Guard) OnChange(fn Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func (g *Guard) notify(ctx context.Context, c *token.Credential) {
	g.mu.Lock()
	ls := make([]Listener, len(g.listeners))
	copy(ls, g.listeners)
	g.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, fn := range ls {
		fn(ctx, c)
	}
}

// EnsureFresh returns a credential that is not expired, renewing it first
// if needed. Concurrent callers that find the credential expired share a
// single refresh request and all observe its outcome.
func (g *Guard) EnsureFresh(ctx context.Context) (token.Credential, error) {
	raw, err := g.slot.Get(ctx)
	if err != nil {
		return token.Credential{}, err
	}
	if raw == "" {
		return token.Credential{}, ErrNotAuthenticated
	}

	c, err := token.Decode(raw)
	if err != nil {
		g.log.Warn(ctx, "held token cannot be decoded", "error", err)
		return token.Credential{}, wrap(ErrCorruptToken, err)
	}

	if !token.IsExpired(c, g.now().Unix()) {
		return c, nil
	}

	g.log.Debug(ctx, "token expired, refreshing", "exp", c.ExpiresAt)

	var led bool
	v, err, shared := g.flight.Do(refreshKey, func() (any, error) {
		// A flight that finished after our read may already have
		// replaced or cleared the token.
		if c, done, err := g.settled(context.WithoutCancel(ctx), raw); done {
			return c, err
		}
		led = true
		return g.refresh(ctx)
	})
	if shared && !led {
		g.log.Debug(ctx, "joined in-flight refresh")
	}

	if led {
		if err != nil && errors.Is(err, ErrRefreshFailed) {
			g.notify(ctx, nil)
		} else if err == nil {
			fresh := v.(token.Credential)
			g.notify(ctx, &fresh)
		}
	}

	if err != nil {
		return token.Credential{}, err
	}
	return v.(token.Credential), nil
}

// settled reports whether the slot changed since prev was read, and if so
// what EnsureFresh should return instead of refreshing again.
func (g *Guard) settled(ctx context.Context, prev string) (token.Credential, bool, error) {
	raw, err := g.slot.Get(ctx)
	if err != nil {
		return token.Credential{}, true, err
	}
	if raw == prev {
		return token.Credential{}, false, nil
	}
	if raw == "" {
		return token.Credential{}, true, ErrNotAuthenticated
	}
	c, err := token.Decode(raw)
	if err != nil {
		return token.Credential{}, true, wrap(ErrCorruptToken, err)
	}
	if token.IsExpired(c, g.now().Unix()) {
		return token.Credential{}, false, nil
	}
	return c, true, nil
}

// refresh runs once per flight. It is detached from the leader's
// cancellation so that followers are not failed by it.
func (g *Guard) refresh(ctx context.Context) (token.Credential, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	raw, err := g.auth.Refresh(ctx)
	if err == nil {
		var c token.Credential
		c, err = token.Decode(raw)
		if err == nil {
			if err := g.slot.Set(ctx, raw); err != nil {
				return token.Credential{}, err
			}
			g.log.Info(ctx, "token refreshed", "exp", c.ExpiresAt)
			return c, nil
		}
	}

	g.log.Warn(ctx, "token refresh failed, clearing session", "error", err)
	if cerr := g.slot.Clear(ctx); cerr != nil {
		g.log.Error(ctx, "failed to clear token", "error", cerr)
	}
	return token.Credential{}, wrap(ErrRefreshFailed, err)
}

// Login exchanges the user's credentials for a token and stores it.
func (g *Guard) Login(ctx context.Context, username, password string) (token.Credential, error) {
	raw, err := g.auth.Login(ctx, username, password)
	if err != nil {
		return token.Credential{}, fmt.Errorf("login: %w", err)
	}
	c, err := g.Set(ctx, raw)
	if err != nil {
		return token.Credential{}, fmt.Errorf("login: %w", err)
	}
	g.log.Info(ctx, "logged in", "username", username)
	return c, nil
}

// Register creates an account. It does not log in.
func (g *Guard) Register(ctx context.Context, form models.Registration) (string, error) {
	msg, err := g.auth.Register(ctx, form)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return msg, nil
}

// Logout forgets the held token. Nothing is sent to the server.
func (g *Guard) Logout(ctx context.Context) error {
	if err := g.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	g.log.Info(ctx, "logged out")
	return nil
}

// DeleteAccount removes the account on the server and forgets the token.
func (g *Guard) DeleteAccount(ctx context.Context) error {
	c, err := g.EnsureFresh(ctx)
	if err != nil {
		return err
	}
	if err := g.auth.DeleteAccount(ctx, c.Raw); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := g.Clear(ctx); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	g.log.Info(ctx, "account deleted")
	return nil
}

// Set validates raw and stores it as the current credential.
func (g *Guard) Set(ctx context.Context, raw string) (token.Credential, error) {
	c, err := token.Decode(raw)
	if err != nil {
		return token.Credential{}, err
	}
	if err := g.slot.Set(ctx, raw); err != nil {
		return token.Credential{}, err
	}
	g.notify(ctx, &c)
	return c, nil
}

func (g *Guard) Clear(ctx context.Context) error {
	if err := g.slot.Clear(ctx); err != nil {
		return err
	}
	g.notify(ctx, nil)
	return nil
}

// Current returns the held credential without refreshing it, or nil when
// the slot is empty.
func (g *Guard) Current(ctx context.Context) (*token.Credential, error) {
	raw, err := g.slot.Get(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	c, err := token.Decode(raw)
	if err != nil {
		return nil, wrap(ErrCorruptToken, err)
	}
	return &c, nil
}

// Authenticated reports whether a decodable token is held. An expired one
// still counts: it is renewed on the next privileged call.
func (g *Guard) Authenticated(ctx context.Context) bool {
	c, err := g.Current(ctx)
	return err == nil && c != nil
}
