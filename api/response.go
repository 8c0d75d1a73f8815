// Copyright (c) 2023 wetrycode
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "github.com/gin-gonic/gin"

// APIVersion version reported in every api response
const APIVersion = "v0.1.0"

type Response struct {
	APIVersion string      `json:"api"`
	Code       int         `json:"code"`
	Message    string      `json:"msg"`
	Data       interface{} `json:"data"`
}

type Gin struct {
	Ctx *gin.Context
}

// Response 响应函数
func (g *Gin) Response(httpCode, errCode int, data interface{}) {
	g.Ctx.JSON(httpCode, Response{
		APIVersion: APIVersion,
		Code:       errCode,
		Message:    GetMsg(errCode),
		Data:       data,
	})
}
