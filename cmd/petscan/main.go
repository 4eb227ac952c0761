// Package main provides the entry point for the petscan CLI.
//
// petscan searches adoptable-pet listings near a US city, stores the
// normalized records in a local SQLite database, and reports on what it
// has collected.
//
// Usage:
//
//	petscan search --city Seattle --state WA --species dog
//	petscan stats --markdown
//	petscan export -o pets.csv
//
// See --help for all available options.
package main

// main is the entry point for petscan.
func main() {
	Execute()
}
