// Package browser opens generated documentation with the platform's opener.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the opener invocation for target on goos.
func Command(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Open launches target, a file path or URL, without waiting for the viewer.
func Open(target string) error {
	name, args := Command(runtime.GOOS, target)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s with %s: %w", target, name, err)
	}
	go cmd.Wait()
	return nil
}
