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
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wetrycode/httpd"
)

var logger = httpd.GetLogger("distributed")

// RdbOptions redis 客户端的可选参数
type RdbOptions func(c *RedisConfig)

// RedisConfig redis配置
type RedisConfig struct {
	// RedisAddr redis 地址
	RedisAddr string
	// RedisPasswd redis 密码
	RedisPasswd string
	// RedisUsername redis 用户名
	RedisUsername string
	// RedisDB redis 数据库索引 index
	RedisDB uint32
	// RdbConnectionsSize 连接池大小
	RdbConnectionsSize uint64
	// RdbTimeout redis 超时时间
	RdbTimeout time.Duration
	// RdbMaxRetry redis操作失败后的重试次数
	RdbMaxRetry int
}

func NewRedisConfig(addr string, username string, passwd string, db uint32, opts ...RdbOptions) *RedisConfig {
	config := &RedisConfig{
		RedisUsername:      username,
		RedisPasswd:        passwd,
		RedisDB:            db,
		RdbConnectionsSize: 32,
		RdbTimeout:         10 * time.Second,
		RdbMaxRetry:        3,
		RedisAddr:          addr,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// NewRedisConfigFromSettings redis section of the global configuration
func NewRedisConfigFromSettings(opts ...RdbOptions) *RedisConfig {
	return NewRedisConfig(
		httpd.Config.GetString("redis.addr"),
		httpd.Config.GetString("redis.username"),
		httpd.Config.GetString("redis.password"),
		httpd.Config.GetUint32("redis.db"),
		opts...,
	)
}

func NewRdbConfig(config *RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPasswd,
		Username: config.RedisUsername,
		DB:       int(config.RedisDB),

		PoolSize:     int(config.RdbConnectionsSize),
		MinIdleConns: 2,

		DialTimeout:  config.RdbTimeout,
		ReadTimeout:  config.RdbTimeout,
		WriteTimeout: config.RdbTimeout,
		PoolTimeout:  config.RdbTimeout,

		MaxRetries:      config.RdbMaxRetry,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	}
}

// NewRdbClient connects to redis and pings it, panics when unreachable
func NewRdbClient(config *RedisConfig) *redis.Client {
	rdb := redis.NewClient(NewRdbConfig(config))
	err := rdb.Ping(context.TODO()).Err()
	if err != nil {
		panic(err)
	}
	return rdb
}
