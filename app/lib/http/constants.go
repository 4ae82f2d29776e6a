package http

import "strconv"

type HttpMethod int

const (
	MethodGet HttpMethod = iota
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodHead
	MethodOptions
)

var methodTokens = map[HttpMethod]string{
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodPatch:   "PATCH",
	MethodDelete:  "DELETE",
	MethodHead:    "HEAD",
	MethodOptions: "OPTIONS",
}

func (m HttpMethod) String() string {
	if token, ok := methodTokens[m]; ok {
		return token
	}
	return "HttpMethod(" + strconv.Itoa(int(m)) + ")"
}

func (m HttpMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMethod matches the token exactly, so "get" is not GET.
func ParseMethod(token string) (HttpMethod, bool) {
	for m, t := range methodTokens {
		if t == token {
			return m, true
		}
	}
	return MethodGet, false
}

type HttpStatus int

const (
	StatusOK                  HttpStatus = 200
	StatusCreated             HttpStatus = 201
	StatusBadRequest          HttpStatus = 400
	StatusUnauthorized        HttpStatus = 401
	StatusNotFound            HttpStatus = 404
	StatusMethodNotAllowed    HttpStatus = 405
	StatusInternalServerError HttpStatus = 500
)

var statusReasons = map[HttpStatus]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusBadRequest:          "Bad Request",
	StatusUnauthorized:        "Unauthorized",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
}

func (s HttpStatus) Code() int {
	return int(s)
}

func (s HttpStatus) String() string {
	if reason, ok := statusReasons[s]; ok {
		return strconv.Itoa(s.Code()) + " " + reason
	}
	return strconv.Itoa(s.Code())
}

var (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderConnection    = "Connection"
)

var (
	TextPlainContentType = "text/plain"
	JsonContentType      = "application/json"
)

var (
	Http1Dot1Version = "HTTP/1.1"
)

var (
	RouteNotFoundBody       = "Route not found."
	MethodNotAllowedBody    = "Method not allowed."
	InternalServerErrorBody = "Internal server error"
)
