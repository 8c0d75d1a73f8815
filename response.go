// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package httpd

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// MaxExtraHeaders extra headers kept by a Response, further ones are dropped
const MaxExtraHeaders = 20

// DefaultServerName value of the Server header when none is configured
const DefaultServerName = "wetrycode-httpd"

// Header one extra response header
type Header struct {
	Key   string
	Value string
}

// Response one outbound message under construction
type Response struct {
	Status      StatusCode // Status response status code
	ContentType MimeType   // ContentType classification written as Content-Type
	Server      string     // Server value of the Server header
	// Body literal body bytes, may be nil when the body is streamed separately
	Body []byte
	// BodyLength value of Content-Length, may be set without Body
	BodyLength int64
	headers    []Header
}

// ResponseOption NewResponse 可选参数
type ResponseOption func(r *Response)

var respLog *logrus.Entry = GetLogger("response")

// ResponseWithServer set the Server header value
func ResponseWithServer(name string) ResponseOption {
	return func(r *Response) {
		r.Server = name
	}
}

// ResponseWithHeader add an extra header at construction
func ResponseWithHeader(key string, value string) ResponseOption {
	return func(r *Response) {
		r.AddHeader(key, value)
	}
}

// StatusPhrase reason phrase of status, "Unknown" for unsupported codes
func StatusPhrase(status StatusCode) string {
	switch status {
	case StatusOK:
		return "OK"
	case StatusCreated:
		return "Created"
	case StatusBadRequest:
		return "Bad Request"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	case StatusInternalServerError:
		return "Internal Server Error"
	}
	return "Unknown"
}

// NewResponse create a new empty Response
func NewResponse(status StatusCode, contentType MimeType, opts ...ResponseOption) *Response {
	r := &Response{}
	r.Init(status, contentType)
	for _, o := range opts {
		o(r)
	}
	return r
}

// Init resets the response to status and contentType with no extra headers
// and no body.
func (r *Response) Init(status StatusCode, contentType MimeType) {
	r.Status = status
	r.ContentType = contentType
	if r.Server == "" {
		r.Server = DefaultServerName
	}
	r.headers = r.headers[:0]
	r.Body = nil
	r.BodyLength = 0
}

// AddHeader appends an extra header. Once MaxExtraHeaders are present the
// header is silently dropped.
func (r *Response) AddHeader(key string, value string) {
	if len(r.headers) >= MaxExtraHeaders {
		respLog.Debugf("drop header %s: %s", key, ErrHeaderCapacityExceeded.Error())
		return
	}
	r.headers = append(r.headers, Header{Key: key, Value: value})
}

// Headers the extra headers in insertion order
func (r *Response) Headers() []Header {
	headers := make([]Header, len(r.headers))
	copy(headers, r.headers)
	return headers
}

// SetBody attaches body and sets BodyLength to its length. A nil body zeroes
// the length. Streamed bodies should use SetBodyLength instead.
func (r *Response) SetBody(body []byte) {
	r.Body = body
	r.BodyLength = int64(len(body))
}

// SetBodyString attaches a text body
func (r *Response) SetBodyString(body string) {
	r.SetBody([]byte(body))
}

// SetBodyLength declares the Content-Length of a body delivered by another path
func (r *Response) SetBodyLength(length int64) {
	if length < 0 {
		length = 0
	}
	r.BodyLength = length
}

// appendHead appends status line, standard headers, extra headers and the
// blank separator line to dst.
func (r *Response) appendHead(dst []byte) []byte {
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(r.Status), 10)
	dst = append(dst, ' ')
	dst = append(dst, StatusPhrase(r.Status)...)
	dst = append(dst, CRLF...)

	dst = appendHeader(dst, "Content-Type", r.ContentType.String())
	dst = append(dst, "Content-Length: "...)
	dst = strconv.AppendInt(dst, r.BodyLength, 10)
	dst = append(dst, CRLF...)
	dst = appendHeader(dst, "Connection", "close")
	dst = appendHeader(dst, "Server", r.Server)
	for _, h := range r.headers {
		dst = appendHeader(dst, h.Key, h.Value)
	}
	return append(dst, CRLF...)
}

func appendHeader(dst []byte, key string, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, ": "...)
	dst = append(dst, value...)
	return append(dst, CRLF...)
}

// HeadSize byte length of the serialized head without the body
func (r *Response) HeadSize() int {
	return len(r.appendHead(make([]byte, 0, 256)))
}

// Serialize writes the response into buf and returns the number of bytes
// written. Output never exceeds len(buf): the head and then the body are
// truncated to fit. Serializing an unmodified response is idempotent.
func (r *Response) Serialize(buf []byte) int {
	head := r.appendHead(make([]byte, 0, 256))
	n := copy(buf, head)
	if n < len(head) {
		respLog.Warnf("response head truncated to %d of %d bytes", n, len(head))
		return n
	}
	if r.Body == nil {
		return n
	}
	body := r.Body
	if int64(len(body)) > r.BodyLength {
		body = body[:r.BodyLength]
	}
	written := copy(buf[n:], body)
	if written < len(body) {
		respLog.Debugf("response body truncated to %d of %d bytes", written, len(body))
	}
	return n + written
}

// Bytes serializes into a fresh buffer of capacity bytes
func (r *Response) Bytes(capacity int) []byte {
	buf := make([]byte, capacity)
	n := r.Serialize(buf)
	return buf[:n]
}
