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
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// Server accepts connections and hands each one to the Handler.
// With a single worker a connection is handled to completion before the next
// one is accepted.
type Server struct {
	addr      string
	handler   *Handler
	limiter   LimitInterface
	workers   int
	status    *RuntimeStatus
	listener  net.Listener
	mutex     sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

var serverLog *logrus.Entry = GetLogger("server")

// NewServer create a server listening on addr
func NewServer(addr string, handler *Handler, opts ...ServerOption) *Server {
	s := &Server{
		addr:    addr,
		handler: handler,
		limiter: NewDefaultLimiter(0),
		workers: 1,
		status:  NewRuntimeStatus(),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewServerFromSettings builds the document root, handler and server
// described by settings. A nil statistic keeps in process counters.
func NewServerFromSettings(settings *ServerSettings, statistic StatisticInterface, opts ...ServerOption) *Server {
	root := NewOsDocumentRoot(settings.Root,
		DocumentRootWithIndex(settings.Index),
		DocumentRootWithChunkSize(settings.ChunkSize),
	)
	handlerOpts := []HandlerOption{
		HandlerWithServerName(settings.Name),
		HandlerWithBufferSize(settings.BufferSize),
		HandlerWithPathCapacity(settings.PathSize),
	}
	if statistic != nil {
		handlerOpts = append(handlerOpts, HandlerWithStatistic(statistic))
	}
	handler := NewDocumentRootHandler(root, handlerOpts...)
	base := []ServerOption{
		ServerWithWorkers(settings.Workers),
		ServerWithLimiter(NewDefaultLimiter(settings.RateLimit)),
	}
	return NewServer(settings.Addr(), handler, append(base, opts...)...)
}

// GetRuntimeStatus 获取服务运行状态
func (s *Server) GetRuntimeStatus() *RuntimeStatus {
	return s.status
}

// GetStatistic counters of the served connections
func (s *Server) GetStatistic() StatisticInterface {
	return s.handler.GetStatistic()
}

// Addr address the server listens on, resolved once serving
func (s *Server) Addr() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ListenAndServe listens on the configured address and serves until ctx is
// done or Stop is called
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s error %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// handleConn serves one connection, a panic only drops that connection
func (s *Server) handleConn(conn net.Conn) {
	defer func() {
		if p := recover(); p != nil {
			serverLog.Errorf("handle connection from %s panic %v %s", conn.RemoteAddr(), p, debug.Stack())
			conn.Close()
		}
	}()
	err := s.handler.Handle(conn)
	if err != nil && !errors.Is(err, ErrPeerClosed) {
		serverLog.Warnf("connection from %s finished with error %s", conn.RemoteAddr(), err.Error())
	}
}

// Serve accepts connections on ln until ctx is done or Stop is called.
// It returns nil on a requested stop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mutex.Lock()
	if s.listener != nil {
		s.mutex.Unlock()
		return errors.New("server is already serving")
	}
	select {
	case <-s.done:
		s.mutex.Unlock()
		ln.Close()
		return ErrServerClosed
	default:
	}
	s.listener = ln
	s.mutex.Unlock()

	s.status.SetStatus(ON_START)
	defer s.status.SetStatus(ON_STOP)
	serverLog.Infof("server listening on %s with %d worker(s)", ln.Addr().String(), s.workers)

	wg := &sync.WaitGroup{}
	GoSyncWait(wg, func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	})
	defer wg.Wait()

	var p *pool.Pool
	if s.workers > 1 {
		p = pool.New().WithMaxGoroutines(s.workers)
		defer p.Wait()
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				serverLog.Infof("server on %s stopped", ln.Addr().String())
				return nil
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				serverLog.Warnf("accept error %s", err.Error())
				continue
			}
			s.Stop()
			return fmt.Errorf("accept error %w", err)
		}
		_ = s.limiter.CheckAndWaitLimiterPass()
		if p == nil {
			s.handleConn(conn)
			continue
		}
		c := conn
		p.Go(func() {
			s.handleConn(c)
		})
	}
}

// Stop closes the listener, Serve returns once the running connections finish.
// A stopped server cannot serve again.
func (s *Server) Stop() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.mutex.Lock()
		defer s.mutex.Unlock()
		if s.listener != nil {
			err = s.listener.Close()
		}
	})
	return err
}
