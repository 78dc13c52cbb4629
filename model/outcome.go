package model

// FetchStatus classifies the outcome of a single asset fetch attempt.
type FetchStatus int

const (
	// StatusSkipped means the target file already existed, so no transport
	// was invoked.
	StatusSkipped FetchStatus = iota
	// StatusFetched means a transport produced the target file.
	StatusFetched
	// StatusFailed means no transport was available, the transfer errored,
	// or the file was missing after a reported success.
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFetched:
		return "fetched"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchOutcome is the per-asset result of the fetch step. It feeds logging
// and run statistics only; the verifier re-derives presence from the
// filesystem instead of trusting it.
type FetchOutcome struct {
	Asset  Asset
	Status FetchStatus
	Bytes  int64
	Err    error
}
