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

package distributed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStatistic counters kept in a redis hash, shared by every server
// reporting under the same name
type RedisStatistic struct {
	rdb redis.Cmdable
	key string
}

// NewRedisStatistic counters stored under httpd:v1:stats:<name>
func NewRedisStatistic(rdb redis.Cmdable, name string) *RedisStatistic {
	return &RedisStatistic{
		rdb: rdb,
		key: fmt.Sprintf("httpd:v1:stats:%s", name),
	}
}

// GetKey redis key of the hash
func (s *RedisStatistic) GetKey() string {
	return s.key
}

// Incr 新增一个指标值
func (s *RedisStatistic) Incr(metric string) {
	s.IncrBy(metric, 1)
}

// IncrBy adds delta to metric. Redis failures are logged, never returned.
func (s *RedisStatistic) IncrBy(metric string, delta uint64) {
	err := s.rdb.HIncrBy(context.TODO(), s.key, metric, int64(delta)).Err()
	if err != nil {
		logger.Errorf("incr %s stats error %s", metric, err.Error())
	}
}

// Get 获取某个指标的数值
func (s *RedisStatistic) Get(metric string) uint64 {
	val, err := s.rdb.HGet(context.TODO(), s.key, metric).Uint64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Errorf("get %s stats error %s", metric, err.Error())
		}
		return 0
	}
	return val
}

// GetAllStats 获取所有的指标
func (s *RedisStatistic) GetAllStats() map[string]uint64 {
	result := make(map[string]uint64)
	values, err := s.rdb.HGetAll(context.TODO(), s.key).Result()
	if err != nil {
		logger.Errorf("get all stats error %s", err.Error())
		return result
	}
	for field, value := range values {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			continue
		}
		result[field] = v
	}
	return result
}
