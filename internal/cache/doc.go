// Package cache persists synthesized speech on disk between runs. Entries
// are zstd-compressed and addressed by a hash of the text and voice.
package cache
