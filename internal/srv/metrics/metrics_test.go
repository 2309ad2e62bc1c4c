package metrics

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0660))
	return filename
}

func TestCPUPercentNeedsTwoSamples(t *testing.T) {
	statFilename := writeFile(t, "stat", "cpu  100 0 0 100 0 0 0 0 0 0\n")
	p := &Provider{statPath: statFilename}

	assert.Equal(t, "N/A", p.CPUPercent())

	// 60 busy over 100 total since the first sample.
	require.NoError(t, ioutil.WriteFile(statFilename, []byte("cpu  160 0 0 140 0 0 0 0 0 0\n"), 0660))
	assert.Equal(t, "60%", p.CPUPercent())
}

func TestCPUPercentIdleSystem(t *testing.T) {
	statFilename := writeFile(t, "stat", "cpu  100 0 0 100 0 0 0 0 0 0\n")
	p := &Provider{statPath: statFilename}

	p.CPUPercent()
	require.NoError(t, ioutil.WriteFile(statFilename, []byte("cpu  100 0 0 200 0 0 0 0 0 0\n"), 0660))
	assert.Equal(t, "0%", p.CPUPercent())
}

func TestCPUPercentMissingFile(t *testing.T) {
	p := &Provider{statPath: filepath.Join(t.TempDir(), "stat")}
	assert.Equal(t, "ERR", p.CPUPercent())
}

func TestRAMInfo(t *testing.T) {
	p := &Provider{meminfoPath: writeFile(t, "meminfo",
		"MemTotal:        1024000 kB\nMemFree:          100000 kB\nMemAvailable:     512000 kB\n")}

	used, total := p.RAMInfo()
	assert.Equal(t, "500MB", used)
	assert.Equal(t, "1000MB", total)
}

func TestRAMInfoMissingFields(t *testing.T) {
	p := &Provider{meminfoPath: writeFile(t, "meminfo", "MemTotal: 1024000 kB\n")}

	used, total := p.RAMInfo()
	assert.Equal(t, "ERR", used)
	assert.Equal(t, "ERR", total)
}

func TestUptimeFormats(t *testing.T) {
	cases := []struct {
		content  string
		expected string
	}{
		{"42.75 100.0\n", "42s"},
		{"125.0 200.0\n", "2m 5s"},
		{"3725.5 4000.0\n", "1h 2m 5s"},
	}
	for _, c := range cases {
		p := &Provider{uptimePath: writeFile(t, "uptime", c.content)}
		assert.Equal(t, c.expected, p.Uptime())
	}
}

func TestCPUTemp(t *testing.T) {
	p := &Provider{thermalPath: writeFile(t, "temp", "48123\n")}
	assert.Equal(t, "48C", p.CPUTemp())
}

func TestCPUTempUnavailable(t *testing.T) {
	p := &Provider{thermalPath: filepath.Join(t.TempDir(), "temp")}
	assert.Equal(t, "N/A", p.CPUTemp())
}

func TestDiskInfo(t *testing.T) {
	p := &Provider{rootPath: "/"}

	used, total := p.DiskInfo()
	assert.NotEqual(t, "ERR", used)
	assert.NotEqual(t, "ERR", total)
}
