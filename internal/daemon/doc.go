// Package daemon runs the long-lived dlsort process.
//
// Run verifies the watched directory, takes a per-directory flock so two
// instances never organize the same folder, sweeps existing files when
// configured, and then hands control to the selected watch feed until the
// context is cancelled.
package daemon
