// Package watch feeds newly arrived entries of the watched directory to the
// organizer.
//
// Select picks one Feed at startup: NotifyFeed subscribes to filesystem
// notifications through fsnotify and settles each new file on a bounded
// worker pool, while PollFeed rescans the directory on a fixed interval when
// notifications are unavailable or polling is requested.
package watch
