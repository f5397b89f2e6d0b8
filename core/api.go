package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/pkg/errors"
)

type (
	// APIClient performs one call against the remote REST API and returns its unwrapped envelope.
	APIClient interface {
		Do(ctx context.Context, req Request) (*Envelope, error)
	}

	// TokenSource yields the bearer token attached to outbound calls ("" when anonymous).
	TokenSource interface {
		Token() string
	}

	// TokenStore persists the single auth token value across process restarts.
	TokenStore interface {
		Load(ctx context.Context) (string, error) // "" when absent
		Save(ctx context.Context, token string) error
		Clear(ctx context.Context) error
	}

	Request struct {
		Method string
		Path   string // relative to the API base URL, eg. "/api/v2/list/students/3"
		Query  url.Values
		Body   interface{} // JSON encoded when set
		Form   *Form       // multipart encoded when set; takes precedence over Body
	}

	Envelope struct {
		Status     interface{}     `json:"status,omitempty"`
		StatusCode int             `json:"status_code,omitempty"`
		Message    string          `json:"message,omitempty"`
		Data       json.RawMessage `json:"data,omitempty"`
		Token      string          `json:"token,omitempty"`
	}

	File struct {
		Field    string
		Filename string
		Content  io.Reader
	}

	formField struct {
		name, value string
	}

	// Form is a multipart payload. Declared fields are always submitted, even when empty.
	Form struct {
		fields []formField
		Files  []File
	}
)

func NewForm() *Form {
	return &Form{}
}

// Set declares a text field; declaring it again overwrites the value but keeps its position.
func (f *Form) Set(name, value string) *Form {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].value = value
			return f
		}
	}
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *Form) Attach(file File) *Form {
	f.Files = append(f.Files, file)
	return f
}

// Fields returns the declared text fields in declaration order.
func (f *Form) Fields() [][2]string {
	out := make([][2]string, 0, len(f.fields))
	for _, fld := range f.fields {
		out = append(out, [2]string{fld.name, fld.value})
	}
	return out
}

// DecodeData normalizes the envelope's data into a sequence:
// an object is one element, an array is its elements, null or absent is empty.
func DecodeData[T any](env *Envelope) ([]T, error) {
	if env == nil {
		return nil, ErrMalformedEnvelope
	}
	raw := bytes.TrimSpace(env.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		items := make([]T, 0)
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(ErrMalformedEnvelope, err.Error())
		}
		return items, nil
	case '{':
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, errors.Wrap(ErrMalformedEnvelope, err.Error())
		}
		return []T{item}, nil
	default:
		return nil, errors.Wrapf(ErrMalformedEnvelope, "unexpected data %.20q", raw)
	}
}

// DecodeOne returns the first element of the envelope's data.
func DecodeOne[T any](env *Envelope) (T, error) {
	var zero T
	items, err := DecodeData[T](env)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrEmptyData
	}
	return items[0], nil
}
