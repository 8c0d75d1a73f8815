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

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wetrycode/httpd"
)

var apiLog *logrus.Entry = httpd.GetLogger("api")

// HttpdAPI admin api of a running file server
type HttpdAPI struct {
	G    *gin.Engine
	S    *httpd.Server
	lock sync.Mutex
}
type statusResp struct {
	Status   string  `json:"status"`
	Addr     string  `json:"addr"`
	StartAt  string  `json:"start_at"`
	StopAt   string  `json:"stop_at"`
	Duration float64 `json:"duration"`
	EngineId string  `json:"engine_id"`
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

func (t *HttpdAPI) status(ctx *gin.Context) {
	runtimeStatus := t.S.GetRuntimeStatus()
	ip, err := httpd.GetMachineIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	rsp := statusResp{
		Status:   runtimeStatus.GetStatusOn().GetTypeName(),
		Addr:     t.S.Addr(),
		StartAt:  formatUnix(runtimeStatus.GetStartAt()),
		StopAt:   formatUnix(runtimeStatus.GetStopAt()),
		Duration: runtimeStatus.GetDuration(),
		EngineId: fmt.Sprintf("%s:%s", ip, httpd.GetEngineId()),
	}
	appG := Gin{Ctx: ctx}
	appG.Response(http.StatusOK, SUCCESS, rsp)
}

func (t *HttpdAPI) stats(ctx *gin.Context) {
	appG := Gin{Ctx: ctx}
	appG.Response(http.StatusOK, SUCCESS, t.S.GetStatistic().GetAllStats())
}

func (t *HttpdAPI) stop(ctx *gin.Context) {
	t.lock.Lock()
	defer t.lock.Unlock()
	appG := Gin{Ctx: ctx}
	if t.S.GetRuntimeStatus().GetStatusOn() != httpd.ON_START {
		appG.Response(http.StatusOK, SERVER_NOT_RUNNING, nil)
		return
	}
	if err := t.S.Stop(); err != nil {
		apiLog.Errorf("stop server error %s", err.Error())
		appG.Response(http.StatusInternalServerError, SERVER_STOP_FAILED, nil)
		return
	}
	appG.Response(http.StatusOK, SUCCESS, nil)
}

// Run serves the api on addr until ctx is done
func (t *HttpdAPI) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      t.G,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	apiLog.Infof("admin api listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func NewAPI(server *httpd.Server) *HttpdAPI {
	API := &HttpdAPI{
		S: server,
	}
	g := SetUp()

	v1Router := g.Group("/api/v1")
	v1Router.GET("/status", API.status)
	v1Router.GET("/stats", API.stats)
	v1Router.POST("/stop", API.stop)
	g.NoRoute(func(ctx *gin.Context) {
		appG := Gin{Ctx: ctx}
		appG.Response(http.StatusNotFound, NOT_FOUND, nil)
	})
	API.G = g
	return API

}
