package http

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultPort = 8000

const maxAcceptDelay = time.Second

type ServeMode int

const (
	// ServeConcurrent hands every accepted connection to its own goroutine.
	ServeConcurrent ServeMode = iota
	// ServeSequential serves one connection at a time on the accept loop.
	ServeSequential
)

type ServerConfig struct {
	// Logger defaults to a disabled logger when nil.
	Logger       *zerolog.Logger
	State        interface{}
	Codec        JsonCodec
	MethodPolicy MethodPolicy
	Mode         ServeMode
}

type HttpServer struct {
	router  *Router
	state   interface{}
	codec   JsonCodec
	policy  MethodPolicy
	mode    ServeMode
	logger  zerolog.Logger
	mu      sync.Mutex
	serving bool
}

// NewHttpServer builds a server from conf. The state, if any, is fixed here and
// shared by reference with every stateful handler; it must synchronize itself
// if handlers mutate it.
func NewHttpServer(conf ServerConfig) *HttpServer {
	codec := conf.Codec
	if codec == nil {
		codec = StdJsonCodec{}
	}

	logger := zerolog.Nop()
	if conf.Logger != nil {
		logger = *conf.Logger
	}

	return &HttpServer{
		router: NewRouter(),
		state:  conf.State,
		codec:  codec,
		policy: conf.MethodPolicy,
		mode:   conf.Mode,
		logger: logger,
	}
}

func (s *HttpServer) Get(path string, h Handler) error {
	return s.Handle(MethodGet, path, h)
}

func (s *HttpServer) Post(path string, h Handler) error {
	return s.Handle(MethodPost, path, h)
}

func (s *HttpServer) Put(path string, h Handler) error {
	return s.Handle(MethodPut, path, h)
}

func (s *HttpServer) Patch(path string, h Handler) error {
	return s.Handle(MethodPatch, path, h)
}

func (s *HttpServer) Delete(path string, h Handler) error {
	return s.Handle(MethodDelete, path, h)
}

func (s *HttpServer) Head(path string, h Handler) error {
	return s.Handle(MethodHead, path, h)
}

func (s *HttpServer) Options(path string, h Handler) error {
	return s.Handle(MethodOptions, path, h)
}

// Handle registers h for the exact method and path. Re-registering a pair
// replaces the previous handler.
func (s *HttpServer) Handle(method HttpMethod, path string, h Handler) error {
	if h == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrNilHandler)
	}

	if h.Stateful() && s.state == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrServerStateNotSet)
	}

	if !h.Stateful() && s.state != nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrHandlerIgnoresState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serving {
		return fmt.Errorf("%s %s: %w", method, path, ErrServerListening)
	}

	if s.router.Handle(method, path, h) {
		s.logger.Debug().Str("method", method.String()).Str("path", path).Msg("replaced existing route")
	}

	return nil
}

// Listen binds all interfaces on port, DefaultPort when port <= 0, and serves
// until accepting fails unrecoverably.
func (s *HttpServer) Listen(port int) error {
	if port <= 0 {
		port = DefaultPort
	}

	address := fmt.Sprintf("0.0.0.0:%d", port)
	l, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", address, err)
	}

	s.logger.Info().Str("address", address).Msg("listening")

	return s.Serve(l)
}

// Serve accepts connections from l. The route table is frozen when Serve is
// entered and registration is closed from then on.
func (s *HttpServer) Serve(l net.Listener) error {
	defer l.Close()

	s.mu.Lock()
	s.serving = true
	routes := s.router.Freeze()
	s.mu.Unlock()

	pipeline := NewHttpPipeline(routes, NewDecoder(s.codec, s.policy), s.state, s.logger)

	s.logger.Info().Int("routes", routes.Len()).Msg("Connection loop is accepting requests...")

	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay = nextAcceptDelay(delay)
			s.logger.Err(err).Dur("retry_in", delay).Msg("Error accepting connection")
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Accepted connection")

		if s.mode == ServeSequential {
			pipeline.Handle(conn)
		} else {
			go pipeline.Handle(conn)
		}
	}
}

func nextAcceptDelay(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}
	delay *= 2
	if delay > maxAcceptDelay {
		return maxAcceptDelay
	}
	return delay
}
