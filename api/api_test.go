package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/wetrycode/httpd"
)

type testResp struct {
	APIVersion string                 `json:"api"`
	Code       int                    `json:"code"`
	Message    string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func newTestServer(t *testing.T) *httpd.Server {
	t.Helper()
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/index.html", []byte("<html></html>"), 0o644)
	handler := httpd.NewDocumentRootHandler(httpd.NewDocumentRoot(fs))
	return httpd.NewServer("127.0.0.1:0", handler)
}

func doRequest(t *testing.T, api *HttpdAPI, method string, url string) (int, *testResp) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, nil)
	api.G.ServeHTTP(w, req)
	resp := &testResp{}
	if err := jsoniter.Unmarshal(w.Body.Bytes(), resp); err != nil {
		t.Fatalf("decode api response %s error %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func TestAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	convey.Convey("test admin api of a stopped server", t, func() {
		api := NewAPI(newTestServer(t))
		code, resp := doRequest(t, api, http.MethodGet, "/api/v1/status")
		convey.So(code, convey.ShouldEqual, http.StatusOK)
		convey.So(resp.APIVersion, convey.ShouldEqual, APIVersion)
		convey.So(resp.Data["status"], convey.ShouldEqual, httpd.ON_STOP.GetTypeName())

		code, resp = doRequest(t, api, http.MethodPost, "/api/v1/stop")
		convey.So(code, convey.ShouldEqual, http.StatusOK)
		convey.So(resp.Code, convey.ShouldEqual, SERVER_NOT_RUNNING)
		convey.So(resp.Message, convey.ShouldEqual, GetMsg(SERVER_NOT_RUNNING))
	})
	convey.Convey("test admin api of a running server", t, func() {
		server := newTestServer(t)
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		done := make(chan error, 1)
		go func() {
			done <- server.Serve(context.Background(), ln)
		}()
		time.Sleep(100 * time.Millisecond)

		conn, err := net.Dial("tcp", ln.Addr().String())
		convey.So(err, convey.ShouldBeNil)
		conn.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
		buf := make([]byte, 1024)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			if _, err := conn.Read(buf); err != nil {
				break
			}
		}
		conn.Close()

		api := NewAPI(server)
		_, resp := doRequest(t, api, http.MethodGet, "/api/v1/status")
		convey.So(resp.Code, convey.ShouldEqual, SUCCESS)
		convey.So(resp.Data["status"], convey.ShouldEqual, httpd.ON_START.GetTypeName())
		convey.So(resp.Data["addr"], convey.ShouldEqual, ln.Addr().String())
		convey.So(resp.Data["start_at"], convey.ShouldNotBeEmpty)

		_, resp = doRequest(t, api, http.MethodGet, "/api/v1/stats")
		convey.So(resp.Code, convey.ShouldEqual, SUCCESS)
		convey.So(resp.Data[httpd.RequestStats], convey.ShouldEqual, 1)
		convey.So(resp.Data["200"], convey.ShouldEqual, 1)

		_, resp = doRequest(t, api, http.MethodPost, "/api/v1/stop")
		convey.So(resp.Code, convey.ShouldEqual, SUCCESS)
		convey.So(<-done, convey.ShouldBeNil)
		convey.So(server.GetRuntimeStatus().GetStatusOn(), convey.ShouldEqual, httpd.ON_STOP)
	})
	convey.Convey("test unknown route", t, func() {
		api := NewAPI(newTestServer(t))
		code, resp := doRequest(t, api, http.MethodGet, "/api/v1/missing")
		convey.So(code, convey.ShouldEqual, http.StatusNotFound)
		convey.So(resp.Code, convey.ShouldEqual, NOT_FOUND)
		convey.So(resp.Message, convey.ShouldEqual, GetMsg(NOT_FOUND))
	})
}

func TestRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	convey.Convey("test api run until cancel", t, func() {
		api := NewAPI(newTestServer(t))
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := ln.Addr().String()
		ln.Close()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- api.Run(ctx, addr)
		}()
		time.Sleep(200 * time.Millisecond)
		rsp, err := http.Get("http://" + addr + "/api/v1/status")
		convey.So(err, convey.ShouldBeNil)
		rsp.Body.Close()
		convey.So(rsp.StatusCode, convey.ShouldEqual, http.StatusOK)
		cancel()
		convey.So(<-done, convey.ShouldBeNil)
	})
}

func TestGetMsg(t *testing.T) {
	convey.Convey("test unknown code message", t, func() {
		convey.So(GetMsg(SUCCESS), convey.ShouldEqual, "ok")
		convey.So(GetMsg(-1), convey.ShouldEqual, MsgFlags[ERROR])
	})
}
