// Package organizer files entries of the watched directory into category
// folders.
//
// BuildIndex turns the configured category mapping into an extension index
// that understands compound extensions such as ".tar.gz". Filter decides
// whether an entry is settled enough to move, Resolver picks a
// collision-free destination name, and Organizer ties them together into
// single-file moves (Organize) and whole-directory sweeps (ScanOnce).
// Per-file failures are logged and absorbed; a single bad file never stops
// a sweep.
package organizer
