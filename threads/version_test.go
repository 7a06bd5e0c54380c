package threads_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kolkov/adaptivesync/threads"
)

func TestAtLeast(t *testing.T) {
	tests := []struct {
		name string
		min  string
		want bool
	}{
		{"exact", "0.1.0", true},
		{"exact with v prefix", "v0.1.0", true},
		{"older patch", "0.0.9", true},
		{"newer minor", "0.2.0", false},
		{"newer major", "1.0.0", false},
		{"invalid", "latest", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, threads.AtLeast(tt.min),
				"AtLeast(%q)", tt.min)
		})
	}
}

func TestGetInfo(t *testing.T) {
	configure(t, threads.Config{Mode: threads.ModeDebug, CheckLocks: false})

	info := threads.GetInfo()
	assert.Equal(t, threads.Version, info.Version)
	assert.Equal(t, threads.ModeDebug, info.Mode)
	assert.False(t, info.UsingThreads)
	assert.False(t, info.CheckLocks)
}

func TestVersionComponentsMatch(t *testing.T) {
	assert.Equal(t, "0.1.0", threads.Version)
	assert.Equal(t, 0, threads.VersionMajor)
	assert.Equal(t, 1, threads.VersionMinor)
	assert.Equal(t, 0, threads.VersionPatch)
}
