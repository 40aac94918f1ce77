// Package config provides configuration structures and utilities for wordrank.
// It defines the options for fetching and analysing pages, report
// generation preferences, and the optional YAML configuration file with
// per-site request settings.
package config
