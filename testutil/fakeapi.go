// Package testutil provides a fake of the remote REST API speaking the {status, message, data, token}
// envelope, plus helpers shared by package tests.
package testutil

import (
	"bytes"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"

	"github.com/trezcool/presensi/core"
	apisvc "github.com/trezcool/presensi/services/api"
	logsvc "github.com/trezcool/presensi/services/logger"
)

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
	errNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")

	signingKey = []byte("presensi-test-secret")
)

type (
	// Reply is one canned response. A zero Status means 200.
	Reply struct {
		Status int
		Body   interface{} // JSON encoded
		Raw    string      // sent verbatim when Body is nil
		// Gate, when set, holds the response until it is closed.
		Gate <-chan struct{}
	}

	// Recorded is a request received by the fake.
	Recorded struct {
		Method string
		Path   string
		Query  url.Values
		Header http.Header
		Body   []byte
		Form   url.Values        // multipart text fields
		Files  map[string]string // multipart field -> file content
	}

	route struct {
		replies   []Reply
		protected bool
	}

	FakeAPI struct {
		*httptest.Server
		app *echo.Echo

		mu       sync.Mutex
		routes   map[string]*route
		requests []Recorded
	}
)

func key(method, path string) string {
	return method + " " + path
}

// NewFakeAPI starts the fake; it is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		app:    echo.New(),
		routes: make(map[string]*route),
	}
	f.app.HideBanner = true
	f.app.HidePort = true
	f.app.Logger.SetLevel(glog.OFF)
	f.app.HTTPErrorHandler = fakeHTTPErrorHandler
	f.app.Any("/*", f.handle)

	f.Server = httptest.NewServer(f.app)
	t.Cleanup(f.Server.Close)
	return f
}

// On registers replies for a route; they are consumed in order and the last one repeats.
func (f *FakeAPI) On(method, path string, replies ...Reply) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[key(method, path)]
	if !ok {
		r = new(route)
		f.routes[key(method, path)] = r
	}
	r.replies = append(r.replies, replies...)
	return f
}

// Protect makes the route answer 401 unless a token issued by IssueToken is sent.
func (f *FakeAPI) Protect(method, path string) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[key(method, path)]
	if !ok {
		r = new(route)
		f.routes[key(method, path)] = r
	}
	r.protected = true
	return f
}

// Requests returns every recorded request for the route.
func (f *FakeAPI) Requests(method, path string) []Recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Recorded, 0)
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Count is the number of requests received for the route.
func (f *FakeAPI) Count(method, path string) int {
	return len(f.Requests(method, path))
}

// Total is the number of requests received overall.
func (f *FakeAPI) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Last returns the most recent request for the route.
func (f *FakeAPI) Last(method, path string) (Recorded, bool) {
	reqs := f.Requests(method, path)
	if len(reqs) == 0 {
		return Recorded{}, false
	}
	return reqs[len(reqs)-1], true
}

func (f *FakeAPI) handle(ctx echo.Context) error {
	req := ctx.Request()
	rec, err := record(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	rt, ok := f.routes[key(req.Method, req.URL.Path)]
	var reply Reply
	if ok && len(rt.replies) > 0 {
		reply = rt.replies[0]
		if len(rt.replies) > 1 {
			rt.replies = rt.replies[1:]
		}
	}
	f.mu.Unlock()

	if !ok {
		return errNotFound
	}
	if rt.protected {
		if err := checkToken(req.Header.Get(echo.HeaderAuthorization)); err != nil {
			return err
		}
	}
	if reply.Gate != nil {
		select {
		case <-reply.Gate:
		case <-req.Context().Done():
			return req.Context().Err()
		}
	}

	code := reply.Status
	if code == 0 {
		code = http.StatusOK
	}
	if reply.Body != nil {
		return ctx.JSON(code, reply.Body)
	}
	return ctx.Blob(code, echo.MIMEApplicationJSON, []byte(reply.Raw))
}

func record(req *http.Request) (Recorded, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return Recorded{}, err
	}
	rec := Recorded{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	}

	mediaType, params, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mediaType != echo.MIMEMultipartForm {
		return rec, nil
	}
	form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		return Recorded{}, err
	}
	rec.Form = url.Values(form.Value)
	rec.Files = make(map[string]string)
	for field, fhs := range form.File {
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				return Recorded{}, err
			}
			data, _ := io.ReadAll(f)
			_ = f.Close()
			rec.Files[field] = string(data)
		}
	}
	return rec, nil
}

// fakeHTTPErrorHandler answers like the real API: {"message": "..."}.
func fakeHTTPErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if !ctx.Response().Committed {
		_ = ctx.JSON(code, echo.Map{"status": "error", "status_code": code, "message": msg})
	}
}

// TokenClaims mirrors the claims the API puts in its tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	SchoolID string `json:"schoolId,omitempty"`
}

// IssueToken signs a token valid for ttl (a negative ttl yields an expired token).
func IssueToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: subject,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("IssueToken(): %v", err)
	}
	return ss
}

func checkToken(header string) error {
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" || raw == header {
		return errMissingToken
	}
	_, err := jwt.ParseWithClaims(raw, new(TokenClaims), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return signingKey, nil
	})
	if err != nil {
		return errInvalidToken
	}
	return nil
}

// Data wraps v in a success envelope.
func Data(v interface{}) Reply {
	return Reply{Body: map[string]interface{}{"status": "success", "status_code": http.StatusOK, "message": "ok", "data": v}}
}

// Fail answers with an error envelope.
func Fail(code int, msg string) Reply {
	return Reply{Status: code, Body: map[string]interface{}{"status": "error", "status_code": code, "message": msg}}
}

// NewLogger returns a silent core.Logger.
func NewLogger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(io.Discard, "", 0), true)
}

// StaticToken is a core.TokenSource always yielding the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client returns an API client pointed at the fake.
func (f *FakeAPI) Client(tokens core.TokenSource) core.APIClient {
	return apisvc.NewClient(f.URL, tokens, NewLogger())
}
