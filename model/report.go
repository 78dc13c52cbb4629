package model

import "time"

// VerifyEntry is one row of the verification report.
type VerifyEntry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size_bytes"`
	Present bool   `json:"present"`
}

// RunReport is the aggregate verification result for one run. It is computed
// fresh from the filesystem every time and never persisted by the tool; the
// optional JSON export is a point-in-time snapshot for automation.
type RunReport struct {
	TargetDir   string        `json:"target_dir"`
	Mode        string        `json:"mode"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []VerifyEntry `json:"entries"`
	AllPresent  bool          `json:"all_present"`
}

// Missing returns the names of entries absent at verification time, in
// manifest order.
func (r *RunReport) Missing() []string {
	var missing []string
	for _, e := range r.Entries {
		if !e.Present {
			missing = append(missing, e.Name)
		}
	}
	return missing
}

// TotalSize returns the combined on-disk size of all present entries.
func (r *RunReport) TotalSize() int64 {
	var total int64
	for _, e := range r.Entries {
		if e.Present {
			total += e.Size
		}
	}
	return total
}
