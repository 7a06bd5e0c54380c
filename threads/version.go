package threads

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/kolkov/adaptivesync/internal/threads/adaptivemutex"
	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// Version information for the adaptive synchronization layer.
const (
	// Version is the current version of the layer.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// AtLeast reports whether the layer's version is at least min, where min is
// a semantic version with or without the leading "v" ("0.1.0" and "v0.1.0"
// are equivalent). Invalid versions compare as not satisfied.
//
// Embedding runtimes use this to gate on primitives they depend on:
//
//	if !threads.AtLeast("0.1.0") {
//		log.Fatal("adaptivesync too old")
//	}
func AtLeast(min string) bool {
	if !strings.HasPrefix(min, "v") {
		min = "v" + min
	}
	if !semver.IsValid(min) {
		return false
	}
	return semver.Compare("v"+Version, min) >= 0
}

// Info is a snapshot of the layer's runtime configuration.
type Info struct {
	// Version is the layer version string.
	Version string

	// Mode is the runtime variant selected at startup.
	Mode Mode

	// UsingThreads is the current thread-use hint.
	UsingThreads bool

	// CheckLocks reports whether lock-misuse warnings are enabled.
	CheckLocks bool
}

// GetInfo returns a snapshot of the layer's runtime configuration.
//
// Example:
//
//	info := threads.GetInfo()
//	fmt.Printf("adaptivesync %s (%s mode)\n", info.Version, info.Mode)
func GetInfo() Info {
	return Info{
		Version:      Version,
		Mode:         threadmode.Current(),
		UsingThreads: threadmode.Enabled(),
		CheckLocks:   adaptivemutex.CheckLocks(),
	}
}
