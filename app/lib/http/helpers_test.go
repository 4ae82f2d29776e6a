package http

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type testResponse struct {
	StatusLine string
	Headers    map[string]string
	Body       string
}

func parseResponse(t *testing.T, raw string) testResponse {
	t.Helper()

	head, body, found := strings.Cut(raw, "\r\n\r\n")
	if !found {
		t.Fatalf("expected a complete response but got %q", raw)
	}

	lines := strings.Split(head, "\r\n")
	headers := make(map[string]string)
	for _, line := range lines[1:] {
		k, v, _ := strings.Cut(line, ": ")
		headers[k] = v
	}

	return testResponse{
		StatusLine: lines[0],
		Headers:    headers,
		Body:       body,
	}
}

// captureResponse runs send against a response bound to one end of a pipe and
// returns everything written to it.
func captureResponse(t *testing.T, send func(res *HttpResponse)) string {
	t.Helper()

	server, client := net.Pipe()
	out := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(client)
		out <- b
	}()

	res := newHttpResponse(server, StdJsonCodec{}, zerolog.Nop())
	send(res)
	server.Close()

	return string(<-out)
}

// roundTrip feeds raw to the pipeline as a single connection and returns the
// bytes the client received before the connection closed.
func roundTrip(t *testing.T, p *HttpPipeline, raw string) string {
	t.Helper()

	server, client := net.Pipe()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		p.Handle(server)
		close(done)
	}()

	go client.Write([]byte(raw))

	out, _ := io.ReadAll(client)
	<-done

	return string(out)
}

// failingConn is a net.Conn whose writes always fail.
type failingConn struct {
	net.Conn
	writes int
	closes int
}

func (c *failingConn) Write(b []byte) (int, error) {
	c.writes++
	return 0, errors.New("broken pipe")
}

func (c *failingConn) Close() error {
	c.closes++
	return nil
}

type panickingCodec struct {
	StdJsonCodec
}

func (panickingCodec) Deserialize(data []byte, v interface{}) error {
	panic("codec exploded")
}
