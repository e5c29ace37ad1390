package report

import (
	"fmt"
)

// Status represents the outcome recorded in a report.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Report holds the outcome of one childproc operation.
type Report struct {
	Name    string   // e.g., "run: sh -c ...", "errno: 2"
	Status  Status   // OK or FAIL
	Details []string // human-readable details, "label: value"
	Err     error    // underlying error for failures
}

// New returns a passing report with the given name.
func New(name string) *Report {
	return &Report{Name: name, Status: StatusOK}
}

// OK returns true if the operation succeeded.
func (r Report) OK() bool {
	return r.Status == StatusOK
}

// Fail sets the report to failed status with a detail message.
func (r *Report) Fail(detail string, err error) Report {
	r.Status = StatusFail
	r.Details = append(r.Details, detail)
	r.Err = err
	return *r
}

// Failf sets the report to failed status with a formatted detail message.
func (r *Report) Failf(format string, args ...any) Report {
	return r.Fail(fmt.Sprintf(format, args...), fmt.Errorf(format, args...))
}

// AddDetail appends a detail line to the report.
func (r *Report) AddDetail(detail string) *Report {
	r.Details = append(r.Details, detail)
	return r
}

// AddDetailf appends a formatted detail line to the report.
func (r *Report) AddDetailf(format string, args ...any) *Report {
	return r.AddDetail(fmt.Sprintf(format, args...))
}
