// Package observability gathers the runtime debug toggles.
package observability

import "os"

// Config controls the optional diagnostic surfaces.
type Config struct {
	// EnablePprofTrace mounts net/http/pprof under /debug/pprof/.
	EnablePprofTrace bool `json:"enablePprofTrace" yaml:"enablePprofTrace"`
}

// FromEnv derives the config from the environment. Any non-empty value other
// than "0" or "false" enables the toggle.
func FromEnv() Config {
	return Config{
		EnablePprofTrace: envEnabled("PINFIELD_PPROF"),
	}
}

func envEnabled(key string) bool {
	switch os.Getenv(key) {
	case "", "0", "false":
		return false
	default:
		return true
	}
}
