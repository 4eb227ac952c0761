// Package stats computes aggregate statistics over the stored pet set and
// renders them as text, JSON, or Markdown.
package stats
