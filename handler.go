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
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/wxnacy/wgo/arrays"
)

// DefaultBufferSize capacity of the request read and response head buffer
const DefaultBufferSize = 4096

// errorMessages messages of the JSON error payloads
var errorMessages = map[StatusCode]string{
	StatusBadRequest:          "Bad Request.",
	StatusForbidden:           "Forbidden.",
	StatusNotFound:            "File Not found.",
	StatusInternalServerError: "Internal Server Error.",
}

// bodylessMethods methods answered with headers only
var bodylessMethods = []string{HEAD.String()}

// Handler serves one connection at a time: it reads the request, maps the
// path onto a file and writes back the file or a JSON error.
type Handler struct {
	resolver     FileResolver
	streamer     FileStreamer
	statistic    StatisticInterface
	serverName   string
	bufferSize   int
	pathCapacity int
	bufferPool   *sync.Pool
}

// HandlerOption NewHandler 可选参数
type HandlerOption func(h *Handler)

var handlerLog *logrus.Entry = GetLogger("handler")

// HandlerWithStatistic counters updated per connection
func HandlerWithStatistic(statistic StatisticInterface) HandlerOption {
	return func(h *Handler) {
		h.statistic = statistic
	}
}

// HandlerWithServerName value of the Server header
func HandlerWithServerName(name string) HandlerOption {
	return func(h *Handler) {
		h.serverName = name
	}
}

// HandlerWithBufferSize capacity of the read buffer, also bounds the
// serialized response head
func HandlerWithBufferSize(size int) HandlerOption {
	return func(h *Handler) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}

// HandlerWithPathCapacity longest path kept from the request line
func HandlerWithPathCapacity(capacity int) HandlerOption {
	return func(h *Handler) {
		if capacity > 0 {
			h.pathCapacity = capacity
		}
	}
}

// NewHandler create a handler resolving paths with resolver and sending file
// bodies with streamer
func NewHandler(resolver FileResolver, streamer FileStreamer, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver:     resolver,
		streamer:     streamer,
		statistic:    NewDefaultStatistic(),
		serverName:   DefaultServerName,
		bufferSize:   DefaultBufferSize,
		pathCapacity: DefaultPathCapacity,
	}
	for _, o := range opts {
		o(h)
	}
	size := h.bufferSize
	h.bufferPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, size)
			return &buf
		},
	}
	return h
}

// NewDocumentRootHandler handler serving the files of root
func NewDocumentRootHandler(root *DocumentRoot, opts ...HandlerOption) *Handler {
	return NewHandler(root, root, opts...)
}

// GetStatistic counters of the handler
func (h *Handler) GetStatistic() StatisticInterface {
	return h.statistic
}

// ErrorBody JSON payload of an error status, e.g. {"Error 404": "File Not found."}
func ErrorBody(status StatusCode) string {
	msg, ok := errorMessages[status]
	if !ok {
		msg = StatusPhrase(status) + "."
	}
	return fmt.Sprintf("{%q: %q}", "Error "+strconv.Itoa(int(status)), msg)
}

// statusOfError status code answering a resolve error
func statusOfError(err error) StatusCode {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return StatusNotFound
	case errors.Is(err, os.ErrNotExist):
		return StatusNotFound
	case errors.Is(err, os.ErrPermission):
		return StatusForbidden
	}
	return StatusInternalServerError
}

func transit(log *logrus.Entry, from ConnState, to ConnState) ConnState {
	log.Debugf("connection state %s -> %s", from.GetTypeName(), to.GetTypeName())
	return to
}

// write sends buf and counts the bytes that reached conn
func (h *Handler) write(conn io.Writer, buf []byte) error {
	n, err := conn.Write(buf)
	h.statistic.IncrBy(BytesSentStats, uint64(n))
	return err
}

// sendError answers with a complete JSON error response in one write
func (h *Handler) sendError(log *logrus.Entry, conn io.Writer, buf []byte, status StatusCode, skipBody bool) (ConnState, error) {
	resp := NewResponse(status, MimeJSON, ResponseWithServer(h.serverName))
	resp.SetBodyString(ErrorBody(status))
	n := resp.Serialize(buf)
	if skipBody && n > resp.HeadSize() {
		n = resp.HeadSize()
	}
	h.statistic.Incr(StatusMetric(status))
	if err := h.write(conn, buf[:n]); err != nil {
		h.statistic.Incr(ErrorStats)
		return StateDispatchingNotFound, fmt.Errorf("write %d response error %w", status, err)
	}
	log.Infof("%d %s", status, StatusPhrase(status))
	if skipBody {
		return StateBodySkipped, nil
	}
	return StateBodySent, nil
}

// ServeConn handles the single request of conn. It does not close conn.
// ErrPeerClosed and *ReadError are returned without anything being written.
func (h *Handler) ServeConn(conn io.ReadWriter) error {
	log := handlerLog.WithField("conn_id", GetUUID())
	state := StateIdle
	h.statistic.Incr(ConnectionStats)

	bufp := h.bufferPool.Get().(*[]byte)
	defer h.bufferPool.Put(bufp)
	buf := *bufp

	state = transit(log, state, StateReading)
	req, err := ReadRequest(conn, buf, h.pathCapacity)
	if err != nil {
		if errors.Is(err, ErrPeerClosed) {
			h.statistic.Incr(PeerClosedStats)
			log.Debug("peer closed before sending a request")
			return err
		}
		h.statistic.Incr(ReadFailStats)
		log.Errorf("read request error %s", err.Error())
		return err
	}
	defer req.Free()
	h.statistic.Incr(RequestStats)
	log.Debugf("request %s", req.String())

	skipBody := arrays.ContainsString(bodylessMethods, req.Method.String()) >= 0
	requestPath, ok := req.Path()
	if !ok || req.Method == UNKNOWN {
		state = transit(log, state, StateDispatchingNotFound)
		next, err := h.sendError(log, conn, buf, StatusBadRequest, skipBody)
		transit(log, state, next)
		return err
	}

	name, size, err := h.resolver.Resolve(requestPath)
	if err != nil {
		status := statusOfError(err)
		if status == StatusInternalServerError {
			log.Errorf("resolve %s error %s", requestPath, err.Error())
		}
		state = transit(log, state, StateDispatchingNotFound)
		next, err := h.sendError(log, conn, buf, status, skipBody)
		transit(log, state, next)
		return err
	}

	state = transit(log, state, StateDispatchingFound)
	resp := NewResponse(StatusOK, ClassifyMime(name), ResponseWithServer(h.serverName))
	resp.SetBodyLength(size)
	n := resp.Serialize(buf)
	h.statistic.Incr(StatusMetric(StatusOK))
	if err := h.write(conn, buf[:n]); err != nil {
		h.statistic.Incr(ErrorStats)
		return fmt.Errorf("write response head error %w", err)
	}
	state = transit(log, state, StateHeadersSent)
	if skipBody {
		transit(log, state, StateBodySkipped)
		log.Infof("%s %s 200 OK", req.Method.String(), name)
		return nil
	}

	sent, err := h.streamer.Stream(conn, name)
	h.statistic.IncrBy(BytesSentStats, uint64(sent))
	if err != nil {
		h.statistic.Incr(ErrorStats)
		log.Errorf("stream %s error %s", name, err.Error())
		return err
	}
	if sent != size {
		log.Warnf("%s changed while streaming, declared %d bytes, sent %d", name, size, sent)
	}
	transit(log, state, StateBodySent)
	log.Infof("%s %s 200 OK %s", req.Method.String(), name, humanize.Bytes(uint64(sent)))
	return nil
}

// Handle serves conn and closes it
func (h *Handler) Handle(conn io.ReadWriteCloser) error {
	err := h.ServeConn(conn)
	if closeErr := conn.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
