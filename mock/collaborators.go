package mock

// Clipboard is a test double for parley.Clipboard. It records writes and
// returns Err from Write when set.
type Clipboard struct {
	Written []string
	Err     error
}

// Write records text and returns Err.
func (c *Clipboard) Write(text string) error {
	c.Written = append(c.Written, text)
	return c.Err
}

// Report is one recorded diagnostic report.
type Report struct {
	Label string
	Err   error
}

// Reporter is a test double for parley.Reporter that records every report.
type Reporter struct {
	Reports []Report
}

// Report records the label and error.
func (r *Reporter) Report(label string, err error) {
	r.Reports = append(r.Reports, Report{Label: label, Err: err})
}
