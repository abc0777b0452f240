// Package config loads the user's .stackyconfig files and persists the record
// of an interrupted sync.
package config
