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
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Settings interface {
	// GetValue 获取指定的参数值
	GetValue(key string) (interface{}, error)
}

type Configuration struct {
	*viper.Viper
}

// ServerSettings the server section of settings.yaml
type ServerSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Name       string `mapstructure:"name"`
	Root       string `mapstructure:"root"`
	Index      string `mapstructure:"index"`
	BufferSize int    `mapstructure:"buffer_size"`
	PathSize   int    `mapstructure:"path_size"`
	ChunkSize  int    `mapstructure:"chunk_size"`
	Workers    int    `mapstructure:"workers"`
	RateLimit  int    `mapstructure:"rate_limit"`
	AdminAddr  string `mapstructure:"admin_addr"`
}

// Addr host:port the listener binds
func (s *ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var onceConfig sync.Once
var Config *Configuration = nil

func newConfiguration() *Configuration {
	c := &Configuration{
		viper.New(),
	}
	c.setDefaults()
	c.SetEnvPrefix("HTTPD")
	c.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.AutomaticEnv()
	return c
}

func newHttpdConfig() {
	onceConfig.Do(func() {
		Config = newConfiguration()
	})
}

func (c *Configuration) setDefaults() {
	c.SetDefault("server.host", "0.0.0.0")
	c.SetDefault("server.port", 8080)
	c.SetDefault("server.name", DefaultServerName)
	c.SetDefault("server.root", ".")
	c.SetDefault("server.index", "index.html")
	c.SetDefault("server.buffer_size", 4096)
	c.SetDefault("server.path_size", DefaultPathCapacity)
	c.SetDefault("server.chunk_size", DefaultChunkSize)
	c.SetDefault("server.workers", 1)
	c.SetDefault("server.rate_limit", 0)
	c.SetDefault("server.admin_addr", "")
	c.SetDefault("log.level", "info")
	c.SetDefault("log.path", "")
	c.SetDefault("redis.addr", "")
	c.SetDefault("redis.username", "")
	c.SetDefault("redis.password", "")
	c.SetDefault("redis.db", 0)
}

func (c *Configuration) GetValue(key string) (interface{}, error) {
	value := c.Get(key)
	return value, nil
}

func (c *Configuration) load(dir string) bool {
	c.AddConfigPath(dir)
	c.SetConfigName("settings")
	c.SetConfigType("yaml")
	readErr := c.ReadInConfig()
	return readErr == nil
}

// ServerSettings decodes the merged server section, defaults included
func (c *Configuration) ServerSettings() (*ServerSettings, error) {
	s := &ServerSettings{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           s,
	})
	if err != nil {
		return nil, err
	}
	err = decoder.Decode(c.AllSettings()["server"])
	if err != nil {
		return nil, fmt.Errorf("decode server settings error %w", err)
	}
	return s, nil
}

// LoadServerSettings decodes the server section of the global configuration
func LoadServerSettings() (*ServerSettings, error) {
	return Config.ServerSettings()
}

func initSettings() {
	newHttpdConfig()
	wd, _ := os.Getwd()
	var abPath string

	_, filename, _, ok := runtime.Caller(0)
	if ok {
		abPath = path.Dir(filename)

	}
	Config.load(wd)
	Config.load(abPath)

}
