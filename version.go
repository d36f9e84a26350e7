package main

import (
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X main.commit=... -X main.buildDate=..." or taken from
// the embedded VCS stamp.
var (
	commit    = "dev"
	buildDate = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "dev" && s.Value != "" {
				commit = s.Value
				if len(commit) > 7 {
					commit = commit[:7]
				}
			}
		case "vcs.time":
			if buildDate == "" && s.Value != "" {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					buildDate = t.Format("2006-01-02")
				}
			}
		}
	}
}
