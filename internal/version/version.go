// Package version describes the running depends binary for --version.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X depends/internal/version.Commit=...".
// When left empty, Commit and BuildDate fall back to the VCS stamps the Go
// toolchain embeds.
var (
	Version   = "1.0.0"
	Commit    = ""
	BuildDate = ""
)

const shortCommit = 7

// Build holds the facts --version reports.
type Build struct {
	Version   string
	Commit    string
	Modified  bool
	Date      string
	GoVersion string
	Platform  string
	// Parser names the import parser compiled into the binary.
	Parser string
}

// Current collects the facts for this binary; parser is the import parser description.
func Current(parser string) Build {
	b := Build{
		Version:   Version,
		Commit:    Commit,
		Date:      BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Parser:    parser,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		b = b.withSettings(info.Settings)
	}
	return b
}

// withSettings fills Commit and Date from vcs.* build settings unless ldflags
// already set them. Modified is only taken from the same source as Commit.
func (b Build) withSettings(settings []debug.BuildSetting) Build {
	fromVCS := b.Commit == ""
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if fromVCS {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			if fromVCS {
				b.Modified = s.Value == "true"
			}
		}
	}
	return b
}

// Short is the cobra Version string, e.g. "1.0.0 (abc1234, modified)".
func (b Build) Short() string {
	var notes []string
	if len(b.Commit) > shortCommit {
		notes = append(notes, b.Commit[:shortCommit])
	} else if b.Commit != "" {
		notes = append(notes, b.Commit)
	}
	if b.Modified {
		notes = append(notes, "modified")
	}
	if len(notes) == 0 {
		return b.Version
	}
	return b.Version + " (" + strings.Join(notes, ", ") + ")"
}

// String is the full --version text.
func (b Build) String() string {
	var sb strings.Builder
	sb.WriteString("depends " + b.Short() + "\n")
	sb.WriteString("commit:  " + orUnknown(b.Commit) + "\n")
	sb.WriteString("built:   " + orUnknown(b.Date) + "\n")
	sb.WriteString("go:      " + b.GoVersion + " " + b.Platform + "\n")
	sb.WriteString("parser:  " + orUnknown(b.Parser))
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
