package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inventrack/console/internal/api"
	pkgerrors "github.com/inventrack/console/pkg/errors"
	"github.com/inventrack/console/pkg/logger"
)

// API binds the auth endpoints onto the shared transport.
type API struct {
	http *api.Client
}

func NewAPI(client *api.Client) (*API, error) {
	if client == nil {
		return nil, fmt.Errorf("auth api transport required")
	}
	return &API{http: client}, nil
}

func (a *API) Login(ctx context.Context, creds Credentials) (*AuthPayload, error) {
	return api.Post[AuthPayload](ctx, a.http, "/auth/login", creds)
}

func (a *API) Register(ctx context.Context, creds Credentials) (*AuthPayload, error) {
	return api.Post[AuthPayload](ctx, a.http, "/auth/register", creds)
}

func (a *API) Me(ctx context.Context) (*User, error) {
	var payload struct {
		User User `json:"user"`
	}
	if err := a.http.Do(ctx, http.MethodGet, "/auth/me", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// Store owns the auth state: the in-memory session plus its durable
// mirror. Any 401 response funnels into HandleUnauthorized through the
// transport hook, so teardown is implemented once rather than per store.
type Store struct {
	api     *API
	storage *Storage
	logg    *logger.Logger

	mu            sync.Mutex
	user          *User
	token         string
	authenticated bool
	loading       bool
	errMsg        string
}

// NewStore restores any persisted session from storage. A corrupt stored
// profile is treated as absent and cleared.
func NewStore(authAPI *API, storage *Storage, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("session logger required")
	}
	s := &Store{api: authAPI, storage: storage, logg: logg}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) restore() error {
	token, hasToken, err := s.storage.Get(keyToken)
	if err != nil {
		return err
	}
	rawUser, hasUser, err := s.storage.Get(keyUser)
	if err != nil {
		return err
	}
	if !hasToken || !hasUser {
		return nil
	}
	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logg.Warn(context.Background(), "stored profile unreadable, clearing session")
		return s.storage.Delete(keyToken, keyUser)
	}
	s.token = token
	s.user = &user
	s.authenticated = true
	return nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login authenticates and persists the session.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	return s.authenticate(ctx, creds, s.api.Login, "could not sign in")
}

// Register creates an account and persists the session, signing the new
// user in directly like the original flow.
func (s *Store) Register(ctx context.Context, creds Credentials) error {
	return s.authenticate(ctx, creds, s.api.Register, "could not register")
}

func (s *Store) authenticate(ctx context.Context, creds Credentials, call func(context.Context, Credentials) (*AuthPayload, error), fallback string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	s.begin()
	payload, err := call(ctx, creds)
	if err != nil {
		s.fail(pkgerrors.UserMessage(err, fallback))
		return err
	}
	return s.establish(ctx, payload)
}

func (s *Store) establish(ctx context.Context, payload *AuthPayload) error {
	encoded, err := json.Marshal(payload.User)
	if err != nil {
		s.fail("could not persist session")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding profile")
	}
	if err := s.storage.Set(keyToken, payload.Token); err != nil {
		s.fail("could not persist session")
		return err
	}
	if err := s.storage.Set(keyUser, string(encoded)); err != nil {
		s.fail("could not persist session")
		return err
	}

	s.mu.Lock()
	s.loading = false
	s.errMsg = ""
	s.token = payload.Token
	user := payload.User
	s.user = &user
	s.authenticated = true
	s.mu.Unlock()

	s.logg.Info(s.logg.WithUserID(ctx, payload.User.ID), "session established")
	return nil
}

// RefreshProfile refetches the profile for an existing token. A failure
// tears the session down, mirroring the original's getProfile handling.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.begin()
	user, err := s.api.Me(ctx)
	if err != nil {
		s.Clear(ctx)
		return err
	}
	s.mu.Lock()
	s.loading = false
	s.user = user
	s.mu.Unlock()
	return nil
}

// Logout clears both the in-memory session and the durable mirror.
func (s *Store) Logout(ctx context.Context) {
	s.Clear(ctx)
}

// HandleUnauthorized is the transport's 401 hook.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	s.logg.Warn(ctx, "authorization failure, clearing session")
	s.Clear(ctx)
}

// Clear wipes session state everywhere. It never fails: a storage error
// is logged and the in-memory state is cleared regardless, so the
// application stays in a renderable signed-out state.
func (s *Store) Clear(ctx context.Context) {
	if err := s.storage.Delete(keyToken, keyUser); err != nil {
		s.logg.Error(ctx, "clearing persisted session", err)
	}
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.errMsg = ""
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Session{
		Authenticated: s.authenticated,
		Loading:       s.loading,
		Err:           s.errMsg,
	}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	if s.token != "" {
		snap.TokenExpiresAt = tokenExpiry(s.token)
	}
	return snap
}

// tokenExpiry peeks at the token's exp claim without verifying it. The
// token stays an opaque bearer string for all authorization purposes;
// this only feeds the session snapshot so the UI can show expiry.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
