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
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// DefaultPathCapacity path bytes kept by ParsePath when no capacity is configured
const DefaultPathCapacity = 4096

// Request one parsed inbound message
type Request struct {
	// Method 请求方式
	Method RequestMethod `json:"method"`
	// path resource path without its leading slash
	path string
	// hasPath whether parsing produced a path
	hasPath bool
	// RawSize byte length of the read that produced the request
	RawSize int `json:"rawSize"`
}

// requestPool request对象内存池
var requestPool *sync.Pool = &sync.Pool{
	New: func() interface{} {
		return new(Request)
	},
}

// reqLog request logger
var reqLog *logrus.Entry = GetLogger("request")

// Path returns the parsed path and whether the request line carried one.
// Callers must treat a missing path as no request at all.
func (r *Request) Path() (string, bool) {
	return r.path, r.hasPath
}

// ToMap 将request对象转为map
func (r *Request) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"method":  r.Method.String(),
		"rawSize": r.RawSize,
	}
	if r.hasPath {
		m["path"] = r.path
	}
	return m
}

// String json form of the request, used for logging
func (r *Request) String() string {
	s, err := jsoniter.MarshalToString(r.ToMap())
	if err != nil {
		return r.Method.String()
	}
	return s
}

// newRequest 从Request对象内存池创建新的Request对象
func newRequest() *Request {
	request := requestPool.Get().(*Request)
	request.Method = UNKNOWN
	request.path = ""
	request.hasPath = false
	request.RawSize = 0
	return request
}

// Free releases the request and its path back to the pool.
// The request must not be used afterwards.
func (r *Request) Free() {
	if r == nil {
		return
	}
	r.Method = UNKNOWN
	r.path = ""
	r.hasPath = false
	r.RawSize = 0
	requestPool.Put(r)
}

// ParseMethod matches the leading method token of requestLine.
// The token must be upper case and followed by a space.
func ParseMethod(requestLine string) RequestMethod {
	for _, m := range methodTokens {
		if strings.HasPrefix(requestLine, m.token) {
			return m.method
		}
	}
	return UNKNOWN
}

// ParsePath extracts the path between the method token and the next space,
// or the end of the line when no protocol version follows.
// A single leading slash is dropped, so "GET / HTTP/1.1" yields an empty path.
// Paths longer than capacity are truncated to capacity bytes.
func ParsePath(requestLine string, capacity int) (string, error) {
	sp := strings.IndexByte(requestLine, ' ')
	if sp < 0 {
		return "", ErrMalformedRequestLine
	}
	rest := requestLine[sp+1:]
	rest = strings.TrimPrefix(rest, "/")
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	if capacity <= 0 {
		capacity = DefaultPathCapacity
	}
	if len(rest) > capacity {
		reqLog.Debugf("path truncated from %d to %d bytes", len(rest), capacity)
		rest = rest[:capacity]
	}
	return rest, nil
}

// requestLine returns the first line of buf. CRLF is searched first, then a
// bare LF; without any terminator the whole buffer is the line.
func requestLine(buf []byte) []byte {
	if end := bytes.Index(buf, []byte(CRLF)); end >= 0 {
		return buf[:end]
	}
	if end := bytes.IndexByte(buf, '\n'); end >= 0 {
		return buf[:end]
	}
	return buf
}

// ParseRequest parses the request line held in buf.
// buf stays owned by the caller; only the path is copied out.
func ParseRequest(buf []byte, pathCapacity int) *Request {
	request := newRequest()
	request.RawSize = len(buf)
	// line is a copy, so the path outlives buf
	line := string(requestLine(buf))
	request.Method = ParseMethod(line)
	path, err := ParsePath(line, pathCapacity)
	if err != nil {
		reqLog.Debugf("parse request line %q error %s", line, err.Error())
		return request
	}
	request.path = path
	request.hasPath = true
	return request
}

// ReadRequest performs exactly one read from conn into the caller owned buf
// and parses the request line.
// It returns ErrPeerClosed when the peer sent nothing and a *ReadError when
// the read failed.
func ReadRequest(conn io.Reader, buf []byte, pathCapacity int) (*Request, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}
	n, err := conn.Read(buf)
	if n > 0 {
		return ParseRequest(buf[:n], pathCapacity), nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, ErrPeerClosed
	}
	return nil, &ReadError{Err: err}
}
