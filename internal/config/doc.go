// Package config loads the parcel server settings from PARCEL_-prefixed
// environment variables and an optional config.yaml, applies defaults and
// validates the result before any component starts.
package config
