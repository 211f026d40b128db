package profiling

import (
	"fmt"

	"github.com/pkg/profile"
)

// Stopper flushes a running profile to disk.
type Stopper interface {
	Stop()
}

type nopStopper struct{}

func (nopStopper) Stop() {}

var modes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
}

// Start begins profiling for the given mode and writes the result under
// dir when the returned Stopper is stopped. An empty mode profiles nothing.
// The server's own shutdown path stops the profile, so pkg/profile is not
// allowed to install its signal hook.
func Start(profilingFor string, dir string) (Stopper, error) {

	if profilingFor == "" {
		return nopStopper{}, nil
	}

	mode, ok := modes[profilingFor]
	if !ok {
		return nil, fmt.Errorf("unknown profiling mode %q", profilingFor)
	}

	options := []func(*profile.Profile){mode, profile.NoShutdownHook, profile.Quiet}
	if dir != "" {
		options = append(options, profile.ProfilePath(dir))
	}

	return profile.Start(options...), nil
}
