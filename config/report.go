package config

// ReportConfig controls the optional machine-readable run report.
type ReportConfig struct {
	// JSONPath, when set, additionally writes the verification report as
	// indented JSON to this path. Empty disables the export.
	JSONPath string `json:"json_path,omitempty" yaml:"json_path,omitempty" toml:"json_path,omitempty"`
}
