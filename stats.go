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

package httpd

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// codeStatusName status codes the server can answer with
var codeStatusName = []StatusCode{
	StatusOK, StatusCreated, StatusBadRequest, StatusUnauthorized,
	StatusForbidden, StatusNotFound, StatusInternalServerError,
}

const (
	// ConnectionStats 接受的连接总数
	ConnectionStats string = "connections"
	// RequestStats 成功解析的请求总数
	RequestStats string = "requests"
	// BytesSentStats 写回客户端的字节总数
	BytesSentStats string = "bytes_sent"
	// PeerClosedStats 未发送请求就关闭的连接数
	PeerClosedStats string = "peer_closed"
	// ReadFailStats 读取失败总数
	ReadFailStats string = "read_fail"
	// ErrorStats 错误总数
	ErrorStats string = "errors"
)

type RuntimeStatus struct {
	StartAt int64
	StopAt  int64
	// StatusOn 当前服务的状态
	StatusOn StatusType
	mutex    sync.RWMutex
}

func NewRuntimeStatus() *RuntimeStatus {
	return &RuntimeStatus{
		StartAt:  0,
		StopAt:   0,
		StatusOn: ON_STOP,
	}
}

// SetStatus 设置服务状态
func (r *RuntimeStatus) SetStatus(status StatusType) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.StatusOn = status
	switch status {
	case ON_START:
		r.StartAt = time.Now().Unix()
		r.StopAt = 0
	case ON_STOP:
		r.StopAt = time.Now().Unix()
	}
}

// GetStatusOn 获取服务的状态
func (r *RuntimeStatus) GetStatusOn() StatusType {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.StatusOn
}

// GetStartAt 获取服务启动的时间戳
func (r *RuntimeStatus) GetStartAt() int64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.StartAt
}

// GetStopAt 服务停止的时间戳
func (r *RuntimeStatus) GetStopAt() int64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.StopAt
}

// GetDuration 服务运行时长，单位秒
func (r *RuntimeStatus) GetDuration() float64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if r.StartAt == 0 {
		return 0
	}
	end := time.Now()
	if r.StopAt != 0 {
		end = time.Unix(r.StopAt, 0)
	}
	duration := end.Sub(time.Unix(r.StartAt, 0)).Seconds()
	return decimal.NewFromFloat(duration).Round(2).InexactFloat64()
}

// StatisticInterface 数据统计组件接口
type StatisticInterface interface {
	GetAllStats() map[string]uint64
	Incr(metric string)
	IncrBy(metric string, delta uint64)
	Get(metric string) uint64
}

// DefaultStatistic in process counters
type DefaultStatistic struct {
	Metrics  map[string]*uint64
	register sync.Map
}

// NewDefaultStatistic 默认统计数据组件构造函数
func NewDefaultStatistic() *DefaultStatistic {
	m := map[string]*uint64{
		ConnectionStats: new(uint64),
		RequestStats:    new(uint64),
		BytesSentStats:  new(uint64),
		PeerClosedStats: new(uint64),
		ReadFailStats:   new(uint64),
		ErrorStats:      new(uint64),
	}
	for _, status := range codeStatusName {
		m[strconv.Itoa(int(status))] = new(uint64)
	}
	s := &DefaultStatistic{
		Metrics:  m,
		register: sync.Map{},
	}
	return s
}

// Incr 新增一个指标值
func (s *DefaultStatistic) Incr(metric string) {
	s.IncrBy(metric, 1)
}

// IncrBy adds delta to metric, unknown metrics are ignored
func (s *DefaultStatistic) IncrBy(metric string, delta uint64) {
	v, ok := s.Metrics[metric]
	if !ok {
		return
	}
	atomic.AddUint64(v, delta)
	s.register.Store(metric, true)
}

// Get 获取某个指标的数值
func (s *DefaultStatistic) Get(metric string) uint64 {
	v, ok := s.Metrics[metric]
	if !ok {
		return 0
	}
	return atomic.LoadUint64(v)
}

// GetAllStats metrics touched at least once
func (s *DefaultStatistic) GetAllStats() map[string]uint64 {
	result := make(map[string]uint64)
	s.register.Range(func(key any, _ any) bool {
		k := key.(string)
		result[k] = s.Get(k)
		return true

	})
	return result
}

// StatusMetric metric name of a status code
func StatusMetric(status StatusCode) string {
	return strconv.Itoa(int(status))
}
