package httpd

import (
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestIncrNewMetric(t *testing.T) {
	convey.Convey("Test a new metric incr", t, func() {
		d := NewDefaultStatistic()
		d.Incr("403")
		d.Incr("not-a-metric")
		convey.So(d.Get(StatusMetric(StatusForbidden)), convey.ShouldEqual, 1)
		convey.So(d.Get("not-a-metric"), convey.ShouldEqual, 0)
		convey.So(d.GetAllStats(), convey.ShouldResemble, map[string]uint64{"403": 1})
	})
}

func TestStatisticConcurrent(t *testing.T) {
	convey.Convey("Test concurrent incr", t, func() {
		d := NewDefaultStatistic()
		wg := &sync.WaitGroup{}
		for i := 0; i < 32; i++ {
			GoSyncWait(wg, func() {
				d.Incr(RequestStats)
				d.IncrBy(BytesSentStats, 10)
			})
		}
		wg.Wait()
		convey.So(d.Get(RequestStats), convey.ShouldEqual, 32)
		convey.So(d.Get(BytesSentStats), convey.ShouldEqual, 320)
		convey.So(len(d.GetAllStats()), convey.ShouldEqual, 2)
	})
}

func TestRuntimeStatus(t *testing.T) {
	convey.Convey("Test runtime status", t, func() {
		r := NewRuntimeStatus()
		convey.So(r.GetStatusOn(), convey.ShouldEqual, ON_STOP)
		r.SetStatus(ON_START)
		convey.So(r.GetStatusOn().GetTypeName(), convey.ShouldEqual, "running")
		convey.So(r.GetStartAt(), convey.ShouldBeGreaterThan, 0)
		time.Sleep(20 * time.Millisecond)
		convey.So(r.GetDuration(), convey.ShouldBeGreaterThan, 0)
		r.SetStatus(ON_STOP)
		convey.So(r.GetStatusOn().GetTypeName(), convey.ShouldEqual, "stop")
		convey.So(r.GetStopAt(), convey.ShouldBeGreaterThanOrEqualTo, r.GetStartAt())
	})
}
