// Package config provides configuration structures and utilities for qrguard.
// It holds the classification service settings, camera settings, server
// settings and report preferences, and loads the optional .qrguard file.
package config
