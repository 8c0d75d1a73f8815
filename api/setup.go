// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"github.com/gin-gonic/gin"
)

// SetUp gin engine with panic recovery and request logging on the api logger
func SetUp() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(func(ctx *gin.Context) {
		ctx.Next()
		apiLog.Debugf("%s %s %d", ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status())
	})
	return engine
}
