package http

import "fmt"

// Handler is invoked at most once per matched request. It writes its output
// through res and must not keep res after returning.
type Handler interface {
	Call(req HttpRequest, res *HttpResponse, state interface{}) error
	Stateful() bool
}

type HandlerFunction func(req HttpRequest, res *HttpResponse)

func (f HandlerFunction) Call(req HttpRequest, res *HttpResponse, _ interface{}) error {
	f(req, res)
	return nil
}

func (f HandlerFunction) Stateful() bool {
	return false
}

// StatefulHandlerFunction receives the server state, which must be of type S.
type StatefulHandlerFunction[S any] func(req HttpRequest, res *HttpResponse, state S)

func (f StatefulHandlerFunction[S]) Call(req HttpRequest, res *HttpResponse, state interface{}) error {
	if state == nil {
		return ErrServerStateNotSet
	}

	s, ok := state.(S)
	if !ok {
		var want S
		return fmt.Errorf("%w: got %T, handler wants %T", ErrStateType, state, want)
	}

	f(req, res, s)
	return nil
}

func (f StatefulHandlerFunction[S]) Stateful() bool {
	return true
}

// WithState adapts a function taking the server state into a Handler.
func WithState[S any](f func(req HttpRequest, res *HttpResponse, state S)) Handler {
	return StatefulHandlerFunction[S](f)
}

var NotFoundHandlerFunc HandlerFunction = func(req HttpRequest, res *HttpResponse) {
	req.Logger.Info().Msg("404 route not found")
	res.SendPlain(StatusNotFound, RouteNotFoundBody)
}

var MethodNotAllowedHandlerFunc HandlerFunction = func(req HttpRequest, res *HttpResponse) {
	req.Logger.Info().Msg("405 method not allowed")
	res.SendPlain(StatusMethodNotAllowed, MethodNotAllowedBody)
}
