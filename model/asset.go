package model

// Asset is a single remotely hosted file the tool provisions locally. Name is
// derived from the tail path segment of the locator and doubles as the file
// name under the target directory.
type Asset struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Manifest is a named, ordered collection of assets selected together by the
// provisioning mode.
type Manifest struct {
	Name   string  `json:"name" yaml:"name"`
	Assets []Asset `json:"assets" yaml:"assets"`
}
