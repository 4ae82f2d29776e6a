package http

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HttpPipeline serves one request per connection: decode, route, handle, close.
// Its fields are never written after construction, so one pipeline is shared
// by every connection goroutine.
type HttpPipeline struct {
	routes  RouteTable
	decoder Decoder
	state   interface{}
	logger  zerolog.Logger
}

func NewHttpPipeline(routes RouteTable, decoder Decoder, state interface{}, logger zerolog.Logger) HttpPipeline {
	return HttpPipeline{
		routes:  routes,
		decoder: decoder,
		state:   state,
		logger:  logger,
	}
}

func (p *HttpPipeline) Handle(conn net.Conn) {
	defer conn.Close()

	connId := uuid.New()
	logger := p.logger.With().Str("conn_id", connId.String()).Logger()

	// a panic outside the handler drops this connection only
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("panic", fmt.Sprint(r)).Msg("connection panicked, closing connection")
		}
	}()

	reader := bufio.NewReader(conn)

	req, err := p.decoder.Decode(reader)
	req.ConnId = connId
	req.Logger = logger.With().Str("path", req.Path).Str("method", req.HttpMethod.String()).Logger()
	res := newHttpResponse(conn, p.decoder.Codec, req.Logger)

	if err != nil {
		if errors.Is(err, ErrUnrecognizedMethod) {
			MethodNotAllowedHandlerFunc(req, res)
			return
		}
		logger.Err(err).Msg("failed to decode request, closing connection")
		return
	}

	logger.Debug().Interface("headers", req.Headers).Int("length", len(req.RawBody)).Msg("parsed request")

	handler, ok := p.routes.Lookup(req.HttpMethod, req.Path)
	if !ok {
		NotFoundHandlerFunc(req, res)
		return
	}

	req.Logger.Debug().Msg("found route")
	p.invoke(handler, req, res)
}

// invoke runs the handler and turns a returned error or a panic into a 500
// when the handler has not responded yet.
func (p *HttpPipeline) invoke(handler Handler, req HttpRequest, res *HttpResponse) {
	defer func() {
		if r := recover(); r != nil {
			req.Logger.Error().Str("panic", fmt.Sprint(r)).Msg("handler panicked")
			if !res.Sent() {
				res.SendPlain(StatusInternalServerError, InternalServerErrorBody)
			}
		}
	}()

	if err := handler.Call(req, res, p.state); err != nil {
		req.Logger.Err(err).Msg("handler failed")
		if !res.Sent() {
			res.SendPlain(StatusInternalServerError, InternalServerErrorBody)
		}
	}
}
