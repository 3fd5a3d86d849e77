package common

import "fmt"

// BuildInfo carries version metadata baked in at link time via -ldflags,
// the way the teacher's common.Build is populated.
type BuildInfo struct {
	Name    string
	Version string
}

// Build is the process-wide singleton, populated in cmd/wm/main.go.
var Build = BuildInfo{
	Name:    "wmgo",
	Version: "dev",
}

func (b BuildInfo) Summary() string {
	return fmt.Sprintf("%s %s", b.Name, b.Version)
}

// Fallback returns the bar's status-text fallback when WM_NAME on root is
// unreadable (§4.6, §7.5).
func Fallback() string {
	return fmt.Sprintf("%s-%s", Build.Name, Build.Version)
}
