package wallpaper

import (
	"fmt"
	"strings"
)

const (
	menuKey   = `Software\Classes\DesktopBackground\Shell\WindWall`
	menuLabel = "Refresh wind wallpaper"
)

// menuCommand is the command line Explorer runs for the desktop entry.
func menuCommand(exe, configPath string) string {
	cmd := fmt.Sprintf(`"%s" apply`, exe)
	if configPath != "" {
		cmd += fmt.Sprintf(` --config "%s"`, strings.TrimSpace(configPath))
	}
	return cmd
}
