// Package config holds the CLI configuration: named defaults, the flag-
// populated Config struct, and the optional .petscan YAML file with
// source profiles and saved searches.
package config
