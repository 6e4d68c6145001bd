// Package file provides the TOML-backed configuration store and the
// client profile persisted in it.
//
// The default location is ~/.falcon/config.toml. Profiles never hold the
// client secret; secrets come from the environment or an interactive
// prompt.
package file
