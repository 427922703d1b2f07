// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrResultFinalized is returned when a result that already holds data or
// an error is assigned again.
var ErrResultFinalized = errors.New("result already finalized")

// ErrEmptyMessage is returned by SetError when the message is empty. A
// failed result always carries its reason.
var ErrEmptyMessage = errors.New("failure message is empty")

// ResultStatus is the lifecycle state of a Result.
type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultSuccess ResultStatus = "success"
	ResultFailed  ResultStatus = "failed"
)

// Result is the outcome of processing one document. It starts pending and
// moves exactly once to success (SetData) or failed (SetError).
type Result struct {
	// Path is the source document path as given to the batch.
	Path string `json:"file_path" yaml:"file_path"`

	// FileName is the base name of Path, used as the row identity on export.
	FileName string `json:"file_name" yaml:"file_name"`

	// Data is the extracted record; empty for failed results.
	Data Record `json:"data" yaml:"data"`

	// Error is the failure message; empty unless the result failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	status ResultStatus
}

// NewResult returns a pending result for the document at path.
func NewResult(path string) *Result {
	return &Result{
		Path:     path,
		FileName: filepath.Base(path),
		status:   ResultPending,
	}
}

// RestoreResult rebuilds a finalized result, e.g. from an archive. A
// non-empty errMsg yields a failed result.
func RestoreResult(path, fileName string, data Record, errMsg string) *Result {
	r := &Result{Path: path, FileName: fileName}
	if errMsg != "" {
		r.Error = errMsg
		r.status = ResultFailed
	} else {
		r.Data = data
		r.status = ResultSuccess
	}
	return r
}

// Status returns the lifecycle state.
func (r *Result) Status() ResultStatus {
	if r.status == "" {
		return ResultPending
	}
	return r.status
}

// SetData attaches the extracted record and marks the result successful.
func (r *Result) SetData(data Record) error {
	if r.Status() != ResultPending {
		return fmt.Errorf("set data on %s: %w", r.FileName, ErrResultFinalized)
	}
	r.Data = data
	r.status = ResultSuccess
	return nil
}

// SetError records a failure message and marks the result failed. msg
// must not be empty.
func (r *Result) SetError(msg string) error {
	if r.Status() != ResultPending {
		return fmt.Errorf("set error on %s: %w", r.FileName, ErrResultFinalized)
	}
	if msg == "" {
		return fmt.Errorf("set error on %s: %w", r.FileName, ErrEmptyMessage)
	}
	r.Data = Record{}
	r.Error = msg
	r.status = ResultFailed
	return nil
}

// HasError reports whether the result failed.
func (r *Result) HasError() bool {
	return r.Status() == ResultFailed
}
