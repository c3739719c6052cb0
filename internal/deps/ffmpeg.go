package deps

import (
	"context"
	"os/exec"
	"strings"
)

// DetectVersions fills in the Version field of every available status by
// running "<command> -version". Failures leave the version empty.
func DetectVersions(ctx context.Context, statuses []Status) []Status {
	for i := range statuses {
		if !statuses[i].Available {
			continue
		}
		statuses[i].Version = probeVersion(ctx, statuses[i].Path)
	}
	return statuses
}

func probeVersion(ctx context.Context, binary string) string {
	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	return parseVersion(string(output))
}

// parseVersion extracts "6.1.1" from a banner such as
// "ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023".
func parseVersion(banner string) string {
	line, _, _ := strings.Cut(banner, "\n")
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] != "version" {
			continue
		}
		version := fields[i+1]
		if cut, _, found := strings.Cut(version, "-"); found && cut != "" {
			version = cut
		}
		return version
	}
	return ""
}
