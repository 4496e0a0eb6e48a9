//go:build windows

package spy

import (
	"fmt"
	"sync"
	"time"

	"github.com/StackExchange/wmi"
)

// wmiExeCache resolves process executable paths through WMI when the direct
// OpenProcess route is denied. Results are cached briefly because the spy
// re-samples the same window several times a second.
type wmiExeCache struct {
	mu   sync.Mutex
	last map[uint32]cachedExe
}

type cachedExe struct {
	path string
	at   time.Time
}

const wmiCacheTTL = 30 * time.Second

func newWMIExeCache() *wmiExeCache {
	return &wmiExeCache{last: make(map[uint32]cachedExe)}
}

func (c *wmiExeCache) Lookup(pid uint32) string {
	c.mu.Lock()
	if v, ok := c.last[pid]; ok && time.Since(v.at) < wmiCacheTTL {
		c.mu.Unlock()
		return v.path
	}
	c.mu.Unlock()

	type win32Process struct {
		ProcessID      uint32
		ExecutablePath *string
	}
	var dst []win32Process
	q := fmt.Sprintf("SELECT ProcessID, ExecutablePath FROM Win32_Process WHERE ProcessID=%d", pid)
	if err := wmi.Query(q, &dst); err != nil || len(dst) == 0 {
		return ""
	}
	path := ""
	if dst[0].ExecutablePath != nil {
		path = *dst[0].ExecutablePath
	}

	c.mu.Lock()
	c.last[pid] = cachedExe{path: path, at: time.Now()}
	c.mu.Unlock()
	return path
}
