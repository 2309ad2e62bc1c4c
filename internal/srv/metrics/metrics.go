// Package metrics turns /proc and sysfs readings into display-ready
// strings. Every getter contains its own failures: a missing or unreadable
// source yields an explicit placeholder, never an error.
package metrics

import (
	"fmt"
	"io/ioutil"
	"net"
	"strconv"
	"strings"
	"syscall"
)

const unavailable = "N/A"
const errValue = "ERR"

type Provider struct {
	statPath    string
	meminfoPath string
	uptimePath  string
	thermalPath string
	rootPath    string

	// Previous /proc/stat sample carried between calls; CPU usage is a
	// delta, so the first read only primes it.
	prevIdle  uint64
	prevTotal uint64
	havePrev  bool
}

func NewProvider() *Provider {
	return &Provider{
		statPath:    "/proc/stat",
		meminfoPath: "/proc/meminfo",
		uptimePath:  "/proc/uptime",
		thermalPath: "/sys/class/thermal/thermal_zone0/temp",
		rootPath:    "/",
	}
}

// CPUPercent returns the busy share since the previous call, or N/A on the
// first call.
func (p *Provider) CPUPercent() string {
	raw, err := ioutil.ReadFile(p.statPath)
	if err != nil {
		return errValue
	}
	line := strings.SplitN(string(raw), "\n", 2)[0]
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "cpu" {
		return errValue
	}

	var total uint64
	for _, field := range fields[1:] {
		value, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return errValue
		}
		total += value
	}
	idle, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return errValue
	}

	prevIdle, prevTotal, havePrev := p.prevIdle, p.prevTotal, p.havePrev
	p.prevIdle, p.prevTotal, p.havePrev = idle, total, true

	if !havePrev {
		return unavailable
	}
	deltaIdle := idle - prevIdle
	deltaTotal := total - prevTotal
	if deltaTotal == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int((1.0-float64(deltaIdle)/float64(deltaTotal))*100))
}

// RAMInfo returns used and total memory in MB.
func (p *Provider) RAMInfo() (string, string) {
	raw, err := ioutil.ReadFile(p.meminfoPath)
	if err != nil {
		return errValue, errValue
	}
	values := map[string]uint64{}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		values[strings.TrimSuffix(fields[0], ":")] = value // kB
	}
	total, okTotal := values["MemTotal"]
	avail, okAvail := values["MemAvailable"]
	if !okTotal || !okAvail {
		return errValue, errValue
	}
	totalMb := total / 1024
	usedMb := totalMb - avail/1024
	return fmt.Sprintf("%dMB", usedMb), fmt.Sprintf("%dMB", totalMb)
}

// DiskInfo returns used and total space of the root filesystem in MB.
func (p *Provider) DiskInfo() (string, string) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(p.rootPath, &stat); err != nil {
		return errValue, errValue
	}
	totalMb := stat.Blocks * uint64(stat.Bsize) / (1024 * 1024)
	freeMb := stat.Bavail * uint64(stat.Bsize) / (1024 * 1024)
	return fmt.Sprintf("%dMB", totalMb-freeMb), fmt.Sprintf("%dMB", totalMb)
}

// IPAddress returns the first non-loopback IPv4 address.
func (p *Provider) IPAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "No IP"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			return ip.String()
		}
	}
	return "No IP"
}

// Uptime returns a human readable uptime string.
func (p *Provider) Uptime() string {
	raw, err := ioutil.ReadFile(p.uptimePath)
	if err != nil {
		return errValue
	}
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return errValue
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return errValue
	}
	h := int(secs) / 3600
	m := int(secs) % 3600 / 60
	s := int(secs) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// CPUTemp reads the first thermal zone in degrees Celsius.
func (p *Provider) CPUTemp() string {
	raw, err := ioutil.ReadFile(p.thermalPath)
	if err != nil {
		return unavailable
	}
	millideg, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return unavailable
	}
	return fmt.Sprintf("%dC", millideg/1000)
}
