// Package version reports the build version of gstack.
package version

import "runtime/debug"

// Version is set at link time with
// -ldflags "-X github.com/Dicklesworthstone/golden_stack/pkg/version.Version=v1.2.3".
var Version = "v0.1.0"

// String returns Version, appending the VCS revision when the binary was
// built from a checkout.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return Version + " (" + s.Value[:7] + ")"
		}
	}
	return Version
}
