package http

import (
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type HttpRequest struct {
	HttpMethod  HttpMethod        `json:"method"`
	HttpVersion string            `json:"version"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	Body        interface{}       `json:"body"`
	RawBody     []byte            `json:"-"`
	ConnId      uuid.UUID         `json:"-"`
	Logger      zerolog.Logger    `json:"-"`

	codec JsonCodec
}

// Header looks a header up ignoring case. Headers keeps the names as sent.
func (r HttpRequest) Header(name string) (string, bool) {
	if v, ok := r.Headers[name]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

type HttpResponse struct {
	conn   net.Conn
	codec  JsonCodec
	logger zerolog.Logger
	sent   bool
}

func newHttpResponse(conn net.Conn, codec JsonCodec, logger zerolog.Logger) *HttpResponse {
	return &HttpResponse{
		conn:   conn,
		codec:  codec,
		logger: logger,
	}
}

// Sent reports whether a response has been written, or attempted, on the connection.
func (r *HttpResponse) Sent() bool {
	return r.sent
}
