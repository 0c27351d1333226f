package version

import "github.com/fatih/color"

// Version information for the qir CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgYellow, color.Bold)
)

// Banner returns "qir <version>" colored when color output is enabled.
func Banner() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return nameColor.Sprint("qir") + " " + versionColor.Sprint(v)
}
