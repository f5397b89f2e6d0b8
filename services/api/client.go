package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
)

const maxErrorBodySize = 1 << 20

type (
	Option func(*Client)

	// Client is the HTTP adapter every slice talks to. It is safe for concurrent use.
	Client struct {
		baseURL string
		http    *http.Client
		tokens  core.TokenSource
		logger  core.Logger
		newID   func() string
	}

	// errorBody is what a failed call may carry: either the API envelope or an {"error": "..."} object.
	errorBody struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
)

var _ core.APIClient = (*Client)(nil)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a client-wide timeout. The default is none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(baseURL string, tokens core.TokenSource, logger core.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(ctx context.Context, req core.Request) (*core.Envelope, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	reqID := httpReq.Header.Get("X-Request-ID")
	c.logger.Debug("api: "+req.Method+" "+req.Path, map[string]interface{}{"request_id": reqID})

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("api: no response", core.NewTransportError(err), map[string]interface{}{"request_id": reqID, "path": req.Path})
		return nil, core.NewTransportError(err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.serverError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewTransportError(err)
	}
	env := new(core.Envelope)
	if len(bytes.TrimSpace(body)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, errors.Wrap(core.NewServerError(resp.StatusCode, core.ErrMalformedEnvelope.Error()), err.Error())
	}
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, req core.Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := encodeForm(req.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding body")
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", c.newID())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

func (c *Client) serverError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var eb errorBody
	msg := ""
	if err := json.Unmarshal(data, &eb); err == nil {
		msg = eb.Message
		if msg == "" {
			msg = eb.Error
		}
	}
	return core.NewServerError(resp.StatusCode, msg)
}

func encodeForm(form *core.Form) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, fld := range form.Fields() {
		if err := w.WriteField(fld[0], fld[1]); err != nil {
			return nil, "", errors.Wrapf(err, "writing field %q", fld[0])
		}
	}
	for _, f := range form.Files {
		if f.Content == nil {
			continue
		}
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", errors.Wrapf(err, "creating %q part", f.Field)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", errors.Wrapf(err, "copying %q", f.Filename)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
