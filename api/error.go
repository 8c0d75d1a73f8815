// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

// api codes, the http ones mirror the status of the reply
const (
	SUCCESS   = 200
	ERROR     = 500
	NOT_FOUND = 404

	SERVER_NOT_RUNNING = 1001
	SERVER_STOP_FAILED = 1002
)

var MsgFlags = map[int]string{
	SUCCESS:            "ok",
	ERROR:              "fail",
	NOT_FOUND:          "api not found",
	SERVER_NOT_RUNNING: "server is not running",
	SERVER_STOP_FAILED: "close listener failed",
}

// GetMsg get error information based on Code
func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}

	return MsgFlags[ERROR]
}
