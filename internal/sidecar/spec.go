package sidecar

import (
	"errors"
	"strings"

	"github.com/videonote/shell/internal/logger"
)

// Spec describes the backend worker to launch and supervise.
type Spec struct {
	Name    string   `json:"name"`     // logical name, used for log file naming and metrics labels
	Command string   `json:"command"`  // worker executable, absolute path or resolved via PATH
	Args    []string `json:"args"`     // arguments; the auto-assign port convention is enforced at launch
	WorkDir string   `json:"work_dir"` // optional working dir
	Env     []string `json:"env"`      // optional extra env (KEY=VALUE)

	Log logger.Config `json:"log"` // capture destinations for worker output
}

const (
	portFlag     = "--port"
	autoPortSpec = "0"
)

// Validate reports configuration problems that would make the launch
// meaningless rather than merely fail.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Command) == "" {
		return errors.New("sidecar: spec.command is required")
	}
	return nil
}

// launchArgs returns the argument list with the automatic port assignment
// convention guaranteed present. The worker must be asked for "--port 0" so
// the OS picks a free port; the bound port comes back on stdout.
func (s *Spec) launchArgs() []string {
	for _, a := range s.Args {
		if a == portFlag || strings.HasPrefix(a, portFlag+"=") {
			return s.Args
		}
	}
	out := make([]string, 0, len(s.Args)+2)
	out = append(out, s.Args...)
	return append(out, portFlag, autoPortSpec)
}
