// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpd

// CRLF line terminator used on the wire
const CRLF = "\r\n"

// RequestMethod method token of the request line
type RequestMethod uint8

const (
	// GET method
	GET RequestMethod = iota
	POST
	PUT
	DELETE
	PATCH
	HEAD
	OPTIONS
	// UNKNOWN the request line did not start with a recognised method token
	UNKNOWN
)

// methodTokens prefixes matched against the request line, order matters
var methodTokens = []struct {
	token  string
	method RequestMethod
}{
	{"GET ", GET},
	{"POST ", POST},
	{"PUT ", PUT},
	{"DELETE ", DELETE},
	{"PATCH ", PATCH},
	{"HEAD ", HEAD},
	{"OPTIONS ", OPTIONS},
}

// String 获取请求方法的字符串形式
func (m RequestMethod) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	case PATCH:
		return "PATCH"
	case HEAD:
		return "HEAD"
	case OPTIONS:
		return "OPTIONS"
	}
	return "UNKNOWN"
}

// StatusCode response status code
type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusCreated             StatusCode = 201
	StatusBadRequest          StatusCode = 400
	StatusUnauthorized        StatusCode = 401
	StatusForbidden           StatusCode = 403
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

// ConnState the lifecycle state of a single connection
type ConnState uint

const (
	// StateIdle connection accepted, nothing read yet
	StateIdle ConnState = iota
	// StateReading waiting on the single request read
	StateReading
	// StateDispatchingFound the requested file exists
	StateDispatchingFound
	// StateDispatchingNotFound an error response is being built
	StateDispatchingNotFound
	// StateHeadersSent status line and headers are on the wire
	StateHeadersSent
	// StateBodySent the body has been written
	StateBodySent
	// StateBodySkipped the response carries no body bytes, e.g. HEAD
	StateBodySkipped
	// StateClosed the connection is closed
	StateClosed
)

// GetTypeName 获取连接状态的字符串形式
func (s ConnState) GetTypeName() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateDispatchingFound:
		return "dispatching-found"
	case StateDispatchingNotFound:
		return "dispatching-not-found"
	case StateHeadersSent:
		return "headers-sent"
	case StateBodySent:
		return "body-sent"
	case StateBodySkipped:
		return "body-skipped"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// StatusType 当前服务的运行状态
type StatusType uint

const (
	// ON_START 启动状态
	ON_START StatusType = iota
	// ON_STOP 停止状态
	ON_STOP
)

// GetTypeName 获取服务状态的字符串形式
func (p StatusType) GetTypeName() string {
	switch p {
	case ON_START:
		return "running"
	case ON_STOP:
		return "stop"
	}
	return "unknown"
}
