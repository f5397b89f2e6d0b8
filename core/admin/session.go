// Package admin holds the session store: the auth token, the authenticated Admin
// and the register/login/current-user/change-password/update-account/logout operations.
package admin

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
)

const (
	Name     = "auth"
	basePath = "/api/v7"
)

var ErrNoToken = errors.New("login response contained no token")

// Session is the only reader and writer of the auth token.
// It is the core.TokenSource of the API client and the tenant of school-scoped slices.
type Session struct {
	api    core.APIClient
	tokens core.TokenStore
	device core.Device
	logger core.Logger

	mu       sync.RWMutex
	state    State
	token    string
	onChange []func(name string)
}

var _ core.TokenSource = (*Session)(nil)

func NewSession(tokens core.TokenStore, device core.Device, logger core.Logger) *Session {
	return &Session{
		tokens: tokens,
		device: device,
		logger: logger,
	}
}

// SetAPI binds the client used for remote calls. The client is expected to read its token from s.
func (s *Session) SetAPI(api core.APIClient) {
	s.mu.Lock()
	s.api = api
	s.mu.Unlock()
}

func (s *Session) Name() string { return Name }

// Token returns the bearer token of the current session, "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SchoolID returns the authenticated Admin's school.
func (s *Session) SchoolID() (core.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.IsAuthenticated() {
		return "", false
	}
	return s.state.Admin.SchoolID, true
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Admin != nil {
		adm := *st.Admin
		st.Admin = &adm
	}
	return st
}

// OnChange registers fn to be called after every state transition.
func (s *Session) OnChange(fn func(name string)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Register creates an Admin. It does not log in: the session keeps its status and no token is stored.
func (s *Session) Register(ctx context.Context, na NewAdmin) (Admin, error) {
	return s.register(ctx, "register", basePath+"/register", na)
}

// RegisterParent creates a parent account, which is an Admin with the parent role.
func (s *Session) RegisterParent(ctx context.Context, na NewAdmin) (Admin, error) {
	na.Role = RoleParent
	return s.register(ctx, "register parent", basePath+"/register/parent", na)
}

func (s *Session) register(ctx context.Context, op, path string, na NewAdmin) (Admin, error) {
	prev := s.begin(true)

	na.clean()
	na.Device = s.withDevice(na.Device)
	if err := core.ValidateStruct(na); err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	env, err := s.call(ctx, core.Request{Method: http.MethodPost, Path: path, Body: na})
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	adm, err := core.DecodeOne[Admin](env)
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}

	s.update(func(st *State) {
		st.Status = prev.Status
		st.Loading = false
	})
	s.logger.Info("admin registered", map[string]interface{}{"username": adm.Username, "schoolId": adm.SchoolID.String(), "role": na.Role})
	return adm, nil
}

// Login authenticates the credentials and persists the returned token.
func (s *Session) Login(ctx context.Context, creds Credentials) (Admin, error) {
	return s.login(ctx, "login", basePath+"/login", creds)
}

// LoginParent authenticates a parent account.
func (s *Session) LoginParent(ctx context.Context, creds Credentials) (Admin, error) {
	return s.login(ctx, "login parent", basePath+"/login/parent", creds)
}

// login keeps the username as typed: accounts may be mixed case.
func (s *Session) login(ctx context.Context, op, path string, creds Credentials) (Admin, error) {
	prev := s.begin(true)

	creds.Username = core.CleanString(creds.Username)
	creds.Device = s.withDevice(creds.Device)
	if err := core.ValidateStruct(creds); err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	env, err := s.call(ctx, core.Request{Method: http.MethodPost, Path: path, Body: creds})
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	if env.Token == "" {
		return Admin{}, s.fail(op, prev, ErrNoToken)
	}
	adm, err := core.DecodeOne[Admin](env)
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	if err := s.tokens.Save(ctx, env.Token); err != nil {
		return Admin{}, s.fail(op, prev, errors.Wrap(err, "persisting token"))
	}

	s.mu.Lock()
	s.token = env.Token
	s.mu.Unlock()
	s.authenticated(adm)
	s.logger.Info("admin logged in", adm)
	return adm, nil
}

// CurrentUser restores the session from the persisted token. It runs once at start up.
// Without a usable token the session ends Anonymous and ErrNotAuthenticated is returned, no remote call is made.
// A token refused by the server is forgotten; after any other failure it is kept for the next attempt.
func (s *Session) CurrentUser(ctx context.Context) (Admin, error) {
	s.begin(false)

	token, err := s.tokens.Load(ctx)
	if err != nil {
		return Admin{}, s.anonymous("current user", errors.Wrap(err, "loading token"), false)
	}
	if token == "" {
		return Admin{}, s.signedOut(core.ErrNotAuthenticated)
	}
	if tokenExpired(token) {
		s.logger.Info("persisted token expired")
		if err := s.tokens.Clear(ctx); err != nil {
			s.logger.Warn("clearing expired token", err)
		}
		return Admin{}, s.signedOut(core.ErrNotAuthenticated)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	env, err := s.call(ctx, core.Request{Method: http.MethodGet, Path: basePath + "/current/user"})
	if err == nil {
		var adm Admin
		if adm, err = core.DecodeOne[Admin](env); err == nil {
			s.authenticated(adm)
			return adm, nil
		}
	}

	refused := core.IsUnauthorized(err)
	if refused {
		if cErr := s.tokens.Clear(ctx); cErr != nil {
			s.logger.Warn("clearing refused token", cErr)
		}
	}
	return Admin{}, s.anonymous("current user", err, refused)
}

// ChangePassword requires an authenticated session.
func (s *Session) ChangePassword(ctx context.Context, id core.ID, cp ChangePassword) (Admin, error) {
	cp.Device = s.withDevice(cp.Device)
	return s.modify(ctx, "change password", id, cp, basePath+"/update/change-password/")
}

// UpdateAccount requires an authenticated session.
func (s *Session) UpdateAccount(ctx context.Context, id core.ID, ua UpdateAccount) (Admin, error) {
	ua.Device = s.withDevice(ua.Device)
	return s.modify(ctx, "update account", id, ua, basePath+"/update/account/")
}

func (s *Session) modify(ctx context.Context, op string, id core.ID, body interface{}, prefix string) (Admin, error) {
	prev := s.begin(false)

	if s.Token() == "" {
		return Admin{}, s.fail(op, prev, core.ErrNotAuthenticated)
	}
	if id.IsZero() {
		msg := "id is a required field"
		return Admin{}, s.fail(op, prev, core.NewValidationError(errors.New(msg), core.FieldError{Field: "id", Error: msg}))
	}
	if err := core.ValidateStruct(body); err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	env, err := s.call(ctx, core.Request{Method: http.MethodPut, Path: prefix + id.String(), Body: body})
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}
	adm, err := core.DecodeOne[Admin](env)
	if errors.Is(err, core.ErrEmptyData) {
		// some endpoints answer with a bare message
		s.update(func(st *State) { st.Loading = false })
		if prev.Admin != nil {
			return *prev.Admin, nil
		}
		return Admin{}, nil
	}
	if err != nil {
		return Admin{}, s.fail(op, prev, err)
	}

	s.update(func(st *State) {
		st.Loading = false
		if st.Admin != nil && st.Admin.ID == adm.ID {
			st.Admin = &adm
		}
	})
	return adm, nil
}

// Logout forgets the token and the Admin. It never fails locally and may be called repeatedly.
func (s *Session) Logout(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("clearing token on logout", err)
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.update(func(st *State) { *st = State{} })
}

func (s *Session) call(ctx context.Context, req core.Request) (*core.Envelope, error) {
	s.mu.RLock()
	api := s.api
	s.mu.RUnlock()
	if api == nil {
		return nil, errors.New("session has no API client")
	}
	return api.Do(ctx, req)
}

func (s *Session) withDevice(d core.Device) core.Device {
	if d.Name == "" {
		d.Name = s.device.Name
	}
	if d.Hardware == "" {
		d.Hardware = s.device.Hardware
	}
	return d
}

// begin marks the session loading and returns the state before the transition.
func (s *Session) begin(authenticating bool) State {
	prev := s.Snapshot()
	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
		if authenticating && st.Status == Anonymous {
			st.Status = Authenticating
		}
	})
	return prev
}

// fail records err and restores the status held before the operation.
func (s *Session) fail(op string, prev State, err error) error {
	msg := core.ErrorMessage(err)
	s.update(func(st *State) {
		st.Loading = false
		st.Error = msg
		st.Status = prev.Status
	})
	s.logger.Warn("auth/"+op+": rejected", err)
	return errors.Wrap(err, "auth/"+op)
}

// anonymous ends a failed session restore.
func (s *Session) anonymous(op string, err error, forgetToken bool) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	msg := core.ErrorMessage(err)
	s.update(func(st *State) {
		*st = State{Error: msg}
	})
	if core.IsTransport(err) {
		s.logger.Error("auth/"+op+": rejected", err)
	} else {
		s.logger.Warn("auth/"+op+": rejected", err, map[string]interface{}{"tokenCleared": forgetToken})
	}
	return errors.Wrap(err, "auth/"+op)
}

// signedOut ends a session restore that had no token to try.
func (s *Session) signedOut(err error) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.update(func(st *State) { *st = State{} })
	return err
}

func (s *Session) authenticated(adm Admin) {
	s.update(func(st *State) {
		st.Status = Authenticated
		st.Admin = &adm
		st.Loading = false
		st.Error = ""
	})
}

// update applies fn under the lock, then notifies listeners outside of it.
func (s *Session) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	listeners := make([]func(string), len(s.onChange))
	copy(listeners, s.onChange)
	s.mu.Unlock()

	for _, l := range listeners {
		l(Name)
	}
}
