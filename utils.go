// Copyright 2022 geebytes
// Licensed under the Apache License, Version 2.0 (the 'License');
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//    http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an 'AS IS' BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package httpd

import (
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

func GetUUID() string {
	u4 := uuid.New()
	uuid := u4.String()
	return uuid

}

// GetMachineIP first non loopback ipv4 address of this host
func GetMachineIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			return ip.String(), nil
		}
	}
	return "", errors.New("no available ipv4 address found")
}

// Map2String json form of a stats map, used for logging
func Map2String(m interface{}) string {
	s, err := jsoniter.MarshalToString(m)
	if err != nil {
		return ""
	}
	return s
}

type GoFunc func()

func GoSyncWait(wg *sync.WaitGroup, funcs ...GoFunc) {
	for _, readyFunc := range funcs {
		_func := readyFunc
		wg.Add(1)
		go func() {
			defer wg.Done()
			_func()
		}()
	}
}
