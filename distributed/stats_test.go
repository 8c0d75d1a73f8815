package distributed

import (
	"bytes"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/wetrycode/httpd"
)

func newTestStatistic(t *testing.T) (*miniredis.Miniredis, *RedisStatistic) {
	t.Helper()
	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mockRedis.Addr(),
	})
	t.Cleanup(func() {
		rdb.Close()
	})
	return mockRedis, NewRedisStatistic(rdb, "testHttpd")
}

func TestRedisStatistic(t *testing.T) {
	convey.Convey("test redis statistic", t, func() {
		mockRedis, stats := newTestStatistic(t)
		convey.So(stats.GetKey(), convey.ShouldEqual, "httpd:v1:stats:testHttpd")
		convey.So(stats.Get(httpd.RequestStats), convey.ShouldEqual, 0)

		stats.Incr(httpd.RequestStats)
		stats.Incr(httpd.RequestStats)
		stats.IncrBy(httpd.BytesSentStats, 128)
		convey.So(stats.Get(httpd.RequestStats), convey.ShouldEqual, 2)
		convey.So(mockRedis.HGet(stats.GetKey(), httpd.BytesSentStats), convey.ShouldEqual, "128")
		convey.So(stats.GetAllStats(), convey.ShouldResemble, map[string]uint64{
			httpd.RequestStats:   2,
			httpd.BytesSentStats: 128,
		})
	})
	convey.Convey("test shared counters", t, func() {
		_, stats := newTestStatistic(t)
		wg := &sync.WaitGroup{}
		for i := 0; i < 16; i++ {
			httpd.GoSyncWait(wg, func() {
				stats.Incr(httpd.ConnectionStats)
			})
		}
		wg.Wait()
		convey.So(stats.Get(httpd.ConnectionStats), convey.ShouldEqual, 16)
	})
	convey.Convey("test invalid values are skipped", t, func() {
		mockRedis, stats := newTestStatistic(t)
		mockRedis.HSet(stats.GetKey(), "broken", "abc")
		mockRedis.HSet(stats.GetKey(), httpd.ErrorStats, "3")
		convey.So(stats.GetAllStats(), convey.ShouldResemble, map[string]uint64{httpd.ErrorStats: 3})
		convey.So(stats.Get("broken"), convey.ShouldEqual, 0)
	})
	convey.Convey("test redis unavailable", t, func() {
		mockRedis, stats := newTestStatistic(t)
		mockRedis.Close()
		stats.Incr(httpd.RequestStats)
		convey.So(stats.Get(httpd.RequestStats), convey.ShouldEqual, 0)
		convey.So(stats.GetAllStats(), convey.ShouldBeEmpty)
	})
}

type testConn struct {
	*bytes.Reader
	written bytes.Buffer
}

func (c *testConn) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

func TestHandlerWithRedisStatistic(t *testing.T) {
	convey.Convey("test handler counting into redis", t, func() {
		_, stats := newTestStatistic(t)
		fs := afero.NewMemMapFs()
		afero.WriteFile(fs, "/index.html", []byte("hello"), 0o644)
		handler := httpd.NewDocumentRootHandler(httpd.NewDocumentRoot(fs), httpd.HandlerWithStatistic(stats))

		conn := &testConn{Reader: bytes.NewReader([]byte("GET / HTTP/1.1\r\n\r\n"))}
		convey.So(handler.ServeConn(conn), convey.ShouldBeNil)
		conn = &testConn{Reader: bytes.NewReader([]byte("GET /missing HTTP/1.1\r\n\r\n"))}
		convey.So(handler.ServeConn(conn), convey.ShouldBeNil)

		convey.So(stats.Get(httpd.RequestStats), convey.ShouldEqual, 2)
		convey.So(stats.Get(httpd.StatusMetric(httpd.StatusOK)), convey.ShouldEqual, 1)
		convey.So(stats.Get(httpd.StatusMetric(httpd.StatusNotFound)), convey.ShouldEqual, 1)
		convey.So(handler.GetStatistic(), convey.ShouldEqual, stats)
	})
}
