// Package planner turns a validated SearchQuery into concrete source
// queries and drives the source client through their pages, bounding the
// total records gathered per search round.
package planner
