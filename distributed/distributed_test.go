package distributed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smartystreets/goconvey/convey"
	"github.com/wetrycode/httpd"
)

func TestNewRdbClient(t *testing.T) {
	convey.Convey("test connect to redis", t, func() {
		mockRedis := miniredis.RunT(t)
		config := NewRedisConfig(mockRedis.Addr(), "", "", 0, RdbWithConnectionsSize(8), RdbWithTimeout(time.Second), RdbWithMaxRetry(1))
		convey.So(config.RdbConnectionsSize, convey.ShouldEqual, 8)
		convey.So(config.RdbTimeout, convey.ShouldEqual, time.Second)
		convey.So(config.RdbMaxRetry, convey.ShouldEqual, 1)

		rdb := NewRdbClient(config)
		defer rdb.Close()
		convey.So(rdb.Set(context.TODO(), "key", "value", 0).Err(), convey.ShouldBeNil)
		convey.So(mockRedis.Exists("key"), convey.ShouldBeTrue)
	})
	convey.Convey("test redis options", t, func() {
		config := NewRedisConfig("127.0.0.1:6379", "user", "passwd", 3)
		options := NewRdbConfig(config)
		convey.So(options.Addr, convey.ShouldEqual, "127.0.0.1:6379")
		convey.So(options.Username, convey.ShouldEqual, "user")
		convey.So(options.Password, convey.ShouldEqual, "passwd")
		convey.So(options.DB, convey.ShouldEqual, 3)
		convey.So(options.PoolSize, convey.ShouldEqual, 32)
		convey.So(options.MaxRetries, convey.ShouldEqual, 3)
	})
	convey.Convey("test unreachable redis", t, func() {
		mockRedis := miniredis.RunT(t)
		addr := mockRedis.Addr()
		mockRedis.Close()
		f := func() {
			NewRdbClient(NewRedisConfig(addr, "", "", 0, RdbWithTimeout(200*time.Millisecond), RdbWithMaxRetry(0)))
		}
		convey.So(f, convey.ShouldPanic)
	})
	convey.Convey("test redis config from settings", t, func() {
		httpd.Config.Set("redis.addr", "10.0.0.1:6379")
		defer httpd.Config.Set("redis.addr", "")
		config := NewRedisConfigFromSettings()
		convey.So(config.RedisAddr, convey.ShouldEqual, "10.0.0.1:6379")
		convey.So(config.RedisDB, convey.ShouldEqual, 0)
	})
}
