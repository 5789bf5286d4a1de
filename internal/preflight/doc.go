// Package preflight provides readiness checks for the filesystem paths dlsort
// depends on.
//
// The daemon runs RunAll at startup and logs each failed check as a warning;
// the CLI "config validate" command prints the same results. A missing
// watched directory is reported here but treated as fatal by the daemon
// itself.
package preflight
