// Package config loads, normalizes, and validates dlsort configuration data.
//
// It supplies repository defaults (including the built-in category mapping),
// expands user paths such as "~/Downloads", reads TOML files, and rejects
// ambiguous category mappings where one extension is claimed by two
// categories. The Config type centralizes every knob the daemon and CLI need.
//
// A loaded Config is treated as immutable: components receive it by pointer
// and never mutate it after Load returns.
package config
