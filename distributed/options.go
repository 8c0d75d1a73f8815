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

import "time"

// RdbWithConnectionsSize rdb 连接池最大连接数
func RdbWithConnectionsSize(size int) RdbOptions {
	return func(c *RedisConfig) {
		c.RdbConnectionsSize = uint64(size)
	}
}

// RdbWithTimeout rdb超时时间设置
func RdbWithTimeout(timeout time.Duration) RdbOptions {
	return func(c *RedisConfig) {
		c.RdbTimeout = timeout
	}
}

// RdbWithMaxRetry rdb失败重试次数
func RdbWithMaxRetry(retry int) RdbOptions {
	return func(c *RedisConfig) {
		c.RdbMaxRetry = retry
	}
}
