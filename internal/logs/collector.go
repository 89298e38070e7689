// Package logs reads back the worker output persisted by the supervisor's
// capture writers. It is a boundary convenience, not supervision logic.
package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel returned when the log directory holds nothing to show.
const NoLogs = "No log files found"

// Collect concatenates every *.log file under dir in modification-time order
// (oldest first), each section prefixed with its filename. A missing or
// empty directory yields the NoLogs sentinel rather than an error.
func Collect(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NoLogs, nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	type logFile struct {
		name string
		mod  int64
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: e.Name(), mod: info.ModTime().UnixNano()})
	}
	if len(files) == 0 {
		return NoLogs, nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod < files[j].mod })

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.name, err)
		}
		fmt.Fprintf(&b, "=== %s ===\n", f.name)
		b.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
