// Package main hosts the dlsort CLI.
//
// Running dlsort without a subcommand starts the organizer daemon for the
// configured Downloads folder. The remaining commands are one-shot helpers:
// a single sweep, classification previews, the category listing, and
// configuration scaffolding.
package main
