package httpd

import (
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestGetMachineIP(t *testing.T) {
	convey.Convey("test get machine IP", t, func() {
		ip, err := GetMachineIP()
		if err != nil {
			t.Skipf("no ipv4 interface available %s", err.Error())
		}
		convey.So(ip, convey.ShouldNotContainSubstring, "127.0.0.1")
	})
}

func TestMap2String(t *testing.T) {
	convey.Convey("test Map2String", t, func() {
		s := Map2String(map[string]uint64{"requests": 2})
		convey.So(s, convey.ShouldEqual, `{"requests":2}`)
		convey.So(Map2String(make(chan int)), convey.ShouldBeEmpty)
	})
}

func TestGetUUID(t *testing.T) {
	convey.Convey("test GetUUID", t, func() {
		id := GetUUID()
		convey.So(len(id), convey.ShouldEqual, 36)
		convey.So(id, convey.ShouldNotEqual, GetUUID())
		convey.So(GetEngineId(), convey.ShouldNotBeEmpty)
	})
}

func TestGoSyncWait(t *testing.T) {
	convey.Convey("test GoSyncWait", t, func() {
		wg := &sync.WaitGroup{}
		mu := sync.Mutex{}
		count := 0
		incr := func() {
			mu.Lock()
			defer mu.Unlock()
			count++
		}
		GoSyncWait(wg, incr, incr, incr)
		wg.Wait()
		convey.So(count, convey.ShouldEqual, 3)
	})
}
