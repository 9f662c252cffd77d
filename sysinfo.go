package lumin

import (
	"runtime"
	"sync"

	"github.com/elastic/go-sysinfo"

	"github.com/uselumin/lumin-go/buildinfo"
)

// eventInfo is the $info sub-object stamped on every outbound event. It
// carries coarse platform facts only, never an install or device identifier.
type eventInfo struct {
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	SDKVersion      string `json:"sdkVersion"`
}

var (
	infoOnce   sync.Once
	cachedInfo eventInfo
)

// collectEventInfo probes the host once and caches the result for the
// process lifetime.
func collectEventInfo() eventInfo {
	infoOnce.Do(func() {
		cachedInfo = eventInfo{
			Platform:        runtime.GOOS,
			PlatformVersion: "unknown",
			SDKVersion:      buildinfo.Version(),
		}
		host, err := sysinfo.Host()
		if err != nil {
			return
		}
		info := host.Info()
		if info.OS == nil {
			return
		}
		if info.OS.Platform != "" {
			cachedInfo.Platform = info.OS.Platform
		}
		if info.OS.Version != "" {
			cachedInfo.PlatformVersion = info.OS.Version
		}
	})
	return cachedInfo
}
