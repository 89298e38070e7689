package sidecar

import (
	"fmt"
	"strconv"
	"strings"
)

// PortMarker is the only structured contract between worker and supervisor:
// a stdout line containing "SERVER_PORT=<decimal>" announces the bound port.
// Everything else on stdout is diagnostic.
const PortMarker = "SERVER_PORT="

// parsePortLine scans a stdout line for the port marker. found reports
// whether the marker was present at all; err is non-nil when the marker was
// present but the remainder did not parse as an unsigned 16-bit integer
// (a ParseAnomaly: logged by the caller, never fatal).
func parsePortLine(line string) (port uint16, found bool, err error) {
	idx := strings.Index(line, PortMarker)
	if idx < 0 {
		return 0, false, nil
	}
	raw := strings.TrimSpace(line[idx+len(PortMarker):])
	v, perr := strconv.ParseUint(raw, 10, 16)
	if perr != nil {
		return 0, true, fmt.Errorf("malformed port %q: %w", raw, perr)
	}
	return uint16(v), true, nil
}
