package main

import (
	"io"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sains1/flashapi/app/lib/http"
	"github.com/sains1/flashapi/app/store"
)

func startApp(t *testing.T) string {
	t.Helper()

	logger := zerolog.Nop()
	server := http.NewHttpServer(http.ServerConfig{
		Logger: &logger,
		State:  &AppState{Users: store.NewKvStore(logger)},
	})

	if err := registerRoutes(server); err != nil {
		t.Fatalf("expected routes to register but got %v", err)
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })

	go server.Serve(l)

	return l.Addr().String()
}

// call sends one request and returns the status code and body.
func call(t *testing.T, addr string, method string, path string, body string) (string, string) {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	raw := method + " " + path + " HTTP/1.1\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatal(err)
	}

	out, err := io.ReadAll(conn)
	if err != nil {
		t.Fatal(err)
	}

	head, resBody, _ := strings.Cut(string(out), "\r\n\r\n")
	statusLine, _, _ := strings.Cut(head, "\r\n")

	return strings.TrimPrefix(statusLine, "HTTP/1.1 "), resBody
}

func TestGetUser(t *testing.T) {
	addr := startApp(t)

	status, body := call(t, addr, "GET", "/user", "")

	if status != "200" || body != `{"id":1,"name":"John Doe"}` {
		t.Errorf("unexpected response %s %s", status, body)
	}
}

func TestEchoUser(t *testing.T) {
	addr := startApp(t)

	tests := []struct {
		name   string
		body   string
		status string
		echo   string
	}{
		{name: "object", body: `{"id":1,"name":"John Doe"}`, status: "200", echo: `{"id":1,"name":"John Doe"}`},
		{name: "array", body: `[1,2,3]`, status: "200", echo: `[1,2,3]`},
		{name: "not json", body: "hello", status: "400", echo: "expected a json body"},
		{name: "no body", body: "", status: "400", echo: "expected a json body"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, body := call(t, addr, "POST", "/user", test.body)

			if status != test.status || body != test.echo {
				t.Errorf("expected %s %s but got %s %s", test.status, test.echo, status, body)
			}
		})
	}
}

func TestUsersLifecycle(t *testing.T) {
	addr := startApp(t)

	steps := []struct {
		method string
		path   string
		body   string
		status string
		reply  string
	}{
		{method: "GET", status: "200", reply: `[]`},
		{method: "POST", body: `{"name":"John Doe"}`, status: "201", reply: `{"id":1,"name":"John Doe"}`},
		{method: "POST", body: `{"name":"Jane Doe"}`, status: "201", reply: `{"id":2,"name":"Jane Doe"}`},
		{method: "POST", body: `{"name":""}`, status: "400", reply: store.ErrEmptyName.Error()},
		{method: "POST", body: `nope`, status: "400", reply: "expected a json body with a name"},
		{method: "POST", path: "/users/lookup", body: `{"id":2}`, status: "200", reply: `{"id":2,"name":"Jane Doe"}`},
		{method: "POST", path: "/users/lookup", body: `{"id":7}`, status: "404", reply: store.ErrUserNotFound.Error()},
		{method: "POST", path: "/users/lookup", body: ``, status: "400", reply: "expected a json body with an id"},
		{method: "PATCH", body: `{"id":2,"name":"Jane Roe"}`, status: "200", reply: `{"id":2,"name":"Jane Roe"}`},
		{method: "PATCH", body: `{"id":9,"name":"Nobody"}`, status: "404", reply: store.ErrUserNotFound.Error()},
		{method: "DELETE", body: `{"id":1}`, status: "200", reply: `{"id":1}`},
		{method: "DELETE", body: `{"id":1}`, status: "404", reply: store.ErrUserNotFound.Error()},
		{method: "POST", path: "/users/lookup", body: `{"id":1}`, status: "404", reply: store.ErrUserNotFound.Error()},
		{method: "GET", status: "200", reply: `[{"id":2,"name":"Jane Roe"}]`},
	}

	for i, step := range steps {
		path := step.path
		if path == "" {
			path = "/users"
		}

		status, body := call(t, addr, step.method, path, step.body)

		if status != step.status || body != step.reply {
			t.Errorf("step %d (%s %s): expected %s %s but got %s %s", i, step.method, step.body, step.status, step.reply, status, body)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	addr := startApp(t)

	status, body := call(t, addr, "PUT", "/users", "")

	if status != "404" || body != http.RouteNotFoundBody {
		t.Errorf("unexpected response %s %s", status, body)
	}
}
