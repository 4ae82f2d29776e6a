package http

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type MethodPolicy int

const (
	// MethodFallbackGet treats any unrecognized method token as GET.
	MethodFallbackGet MethodPolicy = iota
	// MethodStrict rejects unrecognized method tokens with ErrUnrecognizedMethod.
	MethodStrict
)

type Decoder struct {
	Codec  JsonCodec
	Policy MethodPolicy
}

func NewDecoder(codec JsonCodec, policy MethodPolicy) Decoder {
	if codec == nil {
		codec = StdJsonCodec{}
	}
	return Decoder{Codec: codec, Policy: policy}
}

type RequestLine struct {
	HttpMethod  string
	RequestPath string
	HttpVersion string
}

// Decode reads a single request. Under MethodStrict an unrecognized method is
// reported only after the headers and body were consumed, so the returned
// request is complete apart from its method.
func (d Decoder) Decode(reader *bufio.Reader) (HttpRequest, error) {
	rline, err := readRequestLine(reader)
	if err != nil {
		return HttpRequest{}, err
	}

	headers, length, err := readHeaderLines(reader)
	if err != nil {
		return HttpRequest{}, err
	}

	raw, err := readBody(reader, length)
	if err != nil {
		return HttpRequest{}, err
	}

	req := HttpRequest{
		HttpVersion: rline.HttpVersion,
		Path:        rline.RequestPath,
		Headers:     headers,
		Body:        d.parseBody(raw),
		RawBody:     raw,
		codec:       d.Codec,
	}

	method, known := ParseMethod(rline.HttpMethod)
	req.HttpMethod = method
	if !known && d.Policy == MethodStrict {
		return req, newDecodeError("request line", fmt.Errorf("%w: %q", ErrUnrecognizedMethod, rline.HttpMethod))
	}

	return req, nil
}

func (d Decoder) parseBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}

	var body interface{}
	text := strings.ToValidUTF8(string(raw), "\uFFFD")
	if err := d.Codec.Deserialize([]byte(text), &body); err != nil {
		return nil
	}

	return body
}

// Bind deserializes the raw body into v.
func (r HttpRequest) Bind(v interface{}) error {
	if len(r.RawBody) == 0 {
		return fmt.Errorf("failed to bind request body: %w", io.ErrUnexpectedEOF)
	}

	codec := r.codec
	if codec == nil {
		codec = StdJsonCodec{}
	}

	if err := codec.Deserialize(r.RawBody, v); err != nil {
		return fmt.Errorf("failed to bind request body: %w", err)
	}

	return nil
}

func readRequestLine(reader *bufio.Reader) (RequestLine, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return RequestLine{}, newDecodeError("request line", err)
	}

	// an unterminated request line at end of stream is still usable
	if line == "" {
		return RequestLine{}, newDecodeError("request line", ErrEmptyRequest)
	}

	line = trimLineEnding(line)

	method, rest, _ := strings.Cut(line, " ")
	target, version, _ := strings.Cut(rest, " ")

	return RequestLine{
		HttpMethod:  method,
		RequestPath: target,
		HttpVersion: version,
	}, nil
}

// readHeaderLines reads up to the blank line ending the header section and
// returns the headers along with the declared content length.
func readHeaderLines(reader *bufio.Reader) (map[string]string, int, error) {
	result := make(map[string]string)
	length := 0

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return result, 0, newDecodeError("headers", err)
		}

		line = trimLineEnding(line)
		if line == "" {
			break // end of headers
		}

		if header, value, found := strings.Cut(line, ":"); found {
			header = strings.TrimSpace(header)
			value = strings.TrimSpace(value)
			result[header] = value

			if strings.EqualFold(header, HeaderContentLength) {
				length = parseContentLength(value)
			}
		}

		if err != nil {
			break // EOF
		}
	}

	return result, length, nil
}

func parseContentLength(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func readBody(reader *bufio.Reader, length int) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}

	// the buffer grows with the bytes actually received, never with the declared length
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, reader, int64(length))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, newDecodeError("body", fmt.Errorf("%w: got %d of %d bytes", ErrShortBody, n, length))
		}
		return nil, newDecodeError("body", err)
	}

	return buf.Bytes(), nil
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

/*
---------------------------------
RESPONSE
---------------------------------

HTTP/1.1 200\r\n
Content-Length: 3\r\n          // byte length of the body
Content-Type: text/plain\r\n
Connection: close\r\n
\r\n
abc

---------------------------------
*/

func serializeResponse(status HttpStatus, body []byte, contentType string) []byte {
	var builder bytes.Buffer

	// Status line
	builder.WriteString(Http1Dot1Version)
	builder.WriteString(" ")
	builder.WriteString(strconv.Itoa(status.Code()))
	builder.WriteString("\r\n")

	// Headers
	writeHeader(&builder, HeaderContentLength, strconv.Itoa(len(body)))
	writeHeader(&builder, HeaderContentType, contentType)
	writeHeader(&builder, HeaderConnection, "close")
	builder.WriteString("\r\n")

	// Response Body
	builder.Write(body)

	return builder.Bytes()
}

func writeHeader(builder *bytes.Buffer, key string, val string) {
	builder.WriteString(key)
	builder.WriteString(": ")
	builder.WriteString(val)
	builder.WriteString("\r\n")
}

func (r *HttpResponse) Send(status HttpStatus, body string, contentType string) {
	r.SendBytes(status, []byte(body), contentType)
}

// SendBytes writes the whole response in one write. A failed write closes the
// connection; the client sees the connection drop rather than a partial response.
func (r *HttpResponse) SendBytes(status HttpStatus, body []byte, contentType string) {
	if r.sent {
		r.logger.Warn().Err(ErrResponseAlreadySent).Str("status", status.String()).Msg("dropping second response")
		return
	}
	r.sent = true

	r.logger.Debug().Str("status", status.String()).Int("length", len(body)).Str("content-type", contentType).Msg("sending response")

	if _, err := r.conn.Write(serializeResponse(status, body, contentType)); err != nil {
		r.logger.Error().Err(err).Msg("failed to write response, dropping connection")
		r.conn.Close()
	}
}

func (r *HttpResponse) SendPlain(status HttpStatus, body string) {
	r.Send(status, body, TextPlainContentType)
}

// SendJson serializes v and sends it. Serialization errors are never exposed
// to the client, which receives a plain 500 instead.
func (r *HttpResponse) SendJson(status HttpStatus, v interface{}) {
	body, err := r.codec.Serialize(v)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to serialize json body")
		r.SendPlain(StatusInternalServerError, InternalServerErrorBody)
		return
	}

	r.SendBytes(status, body, JsonContentType)
}
