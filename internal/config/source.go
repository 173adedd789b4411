package config

import "runtime"

// DefaultSourcePath returns where Comet keeps its History database on the
// current platform. The path may start with ~.
func DefaultSourcePath() string {
	switch runtime.GOOS {
	case "darwin":
		return "~/Library/Application Support/Comet/Default/History"
	case "windows":
		return "~/AppData/Local/Perplexity/Comet/User Data/Default/History"
	default:
		return "~/.config/comet/Default/History"
	}
}
