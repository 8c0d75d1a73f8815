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
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger = logrus.New()
var ProcessId string = uuid.New().String()

type DefaultFieldHook struct {
}

func (hook *DefaultFieldHook) Fire(entry *logrus.Entry) error {
	name, _ := os.Hostname()
	entry.Data["hostname"] = name
	entry.Data["processId"] = ProcessId
	return nil
}

func (hook *DefaultFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
func GetLogger(Name string) *logrus.Entry {

	log := logger.WithFields(logrus.Fields{
		"logName": Name,
	})

	return log
}

// fileHook writes logs to info.log, debug.log and error.log under dir
func fileHook(dir string, formatter logrus.Formatter) logrus.Hook {
	pathMap := lfshook.PathMap{
		logrus.InfoLevel:  filepath.Join(dir, "info.log"),
		logrus.WarnLevel:  filepath.Join(dir, "info.log"),
		logrus.PanicLevel: filepath.Join(dir, "error.log"),
		logrus.ErrorLevel: filepath.Join(dir, "error.log"),
		logrus.FatalLevel: filepath.Join(dir, "error.log"),
		logrus.DebugLevel: filepath.Join(dir, "debug.log"),
	}
	return lfshook.NewHook(pathMap, formatter)
}

func initLog() {
	logger.SetReportCaller(true)

	logger.SetOutput(os.Stdout)
	_, ex := os.LookupEnv("UNITTEST")
	logLevel := Config.GetString("log.level")
	if ex {
		logLevel = "error"
	}
	logLevel = strings.TrimSpace(logLevel)
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		panic(fmt.Errorf("fatal error parse level: %s", err))
	}
	logger.SetFormatter(&logrus.TextFormatter{
		ForceQuote:      true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	logger.SetLevel(logrus.Level(level))
	hooks := make(logrus.LevelHooks)
	hooks.Add(&DefaultFieldHook{})
	if logPath := strings.TrimSpace(Config.GetString("log.path")); logPath != "" {
		hooks.Add(fileHook(logPath, &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}))
	}
	logger.ReplaceHooks(hooks)
}

// SetLogLevel overrides the configured level, e.g. for a verbose flag
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}
