package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// platform is swappable in tests.
var platform = func() string { return runtime.GOOS }

// OpenBrowser launches the default browser at url. The auth flow uses this
// to hand the Spotify authorization URL to the user; callers print the URL
// as a fallback when the launch fails.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch p := platform(); p {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("no browser launcher for platform %s", p)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
