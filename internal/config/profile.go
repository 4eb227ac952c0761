package config

// SourceProfile customizes how one listing source is queried. Profiles
// let a config file point the client at a mirror or attach auth headers
// without code changes.
type SourceProfile struct {
	// BaseURL overrides the source's search endpoint.
	BaseURL string `yaml:"baseURL,omitempty"`

	// UserAgent overrides the User-Agent header for this source.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// SearchSpec is one saved search, run by batch mode.
type SearchSpec struct {
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Species string `yaml:"species,omitempty"`
	Radius  int    `yaml:"radius,omitempty"`
}

// File represents the structure of the .petscan configuration file.
type File struct {
	// Sources maps source names to their profiles.
	Sources map[string]SourceProfile `yaml:"sources,omitempty"`

	// Searches lists saved searches for batch mode.
	Searches []SearchSpec `yaml:"searches,omitempty"`
}

// GetSourceProfile returns the profile for a source name, or a zero
// profile when none is configured.
func (cf *File) GetSourceProfile(name string) SourceProfile {
	if cf == nil {
		return SourceProfile{}
	}
	return cf.Sources[name]
}
