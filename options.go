// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpd

// ServerOption 服务构造过程中的可选参数
type ServerOption func(s *Server)

// ServerWithWorkers connections handled concurrently, values below 2 keep
// the one connection at a time model
func ServerWithWorkers(workers int) ServerOption {
	return func(s *Server) {
		if workers < 1 {
			workers = 1
		}
		s.workers = workers
	}
}

// ServerWithLimiter limiter consulted before each accepted connection
func ServerWithLimiter(limiter LimitInterface) ServerOption {
	return func(s *Server) {
		s.limiter = limiter
	}
}
