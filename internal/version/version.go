// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.1.0"

// Milestones:
// 0.1.0 - Animated star field, shooting stars, nebula glows, tcell backend, headless PNG snapshots
