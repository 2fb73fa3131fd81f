package controllers

// logMetaJSON describes one archived log in the /api/logs listing. Modified
// is a Unix timestamp in milliseconds so browser clients can feed it straight
// to Date().
type logMetaJSON struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
}

// healthJSON is the /healthz response body.
type healthJSON struct {
	Status        string `json:"status"`
	LogDirPresent bool   `json:"logDirPresent"`
}
