// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Code is the closed error taxonomy shared by the service and the protocol boundary.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeNotFound      Code = "NOT_FOUND"
	CodeDatabase      Code = "DATABASE_ERROR"
	CodeFileSystem    Code = "FILE_SYSTEM_ERROR"
	CodeUnknown       Code = "UNKNOWN_ERROR"
)

// Codes lists every taxonomy entry.
func Codes() []Code {
	return []Code{CodeValidation, CodeAlreadyExists, CodeNotFound, CodeDatabase, CodeFileSystem, CodeUnknown}
}

// ErrValidation is raised for malformed input before any mutation happens.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string { return e.Message }
func (e *ErrValidation) Code() Code    { return CodeValidation }

func (e *ErrValidation) Details() any {
	if e.Field == "" {
		return nil
	}
	return map[string]string{"field": e.Field}
}

// ErrCampaignNameExists is a uniqueness violation on the campaign name.
type ErrCampaignNameExists struct {
	Name string
}

func (e *ErrCampaignNameExists) Error() string {
	return fmt.Sprintf("Campaign with name %q already exists", e.Name)
}
func (e *ErrCampaignNameExists) Code() Code { return CodeAlreadyExists }

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("Campaign with ID %q not found", e.CampaignID)
}
func (e *ErrCampaignNotFound) Code() Code { return CodeNotFound }

// ErrDatabase wraps a storage failure that has no more specific meaning.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}
func (e *ErrDatabase) Code() Code    { return CodeDatabase }
func (e *ErrDatabase) Unwrap() error { return e.Err }

// ErrFileSystem wraps a directory or file operation failure.
type ErrFileSystem struct {
	Op   string
	Path string
	Err  error
}

func (e *ErrFileSystem) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Path, e.Err)
}
func (e *ErrFileSystem) Code() Code    { return CodeFileSystem }
func (e *ErrFileSystem) Unwrap() error { return e.Err }

func (e *ErrFileSystem) Details() any {
	if e.Path == "" {
		return nil
	}
	return map[string]string{"path": e.Path}
}

// Helper constructors

func NewValidation(field, message string) error {
	return &ErrValidation{Field: field, Message: message}
}

func NewCampaignNameExists(name string) error {
	return &ErrCampaignNameExists{Name: name}
}

func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

func NewDatabase(op string, err error) error {
	return &ErrDatabase{Op: op, Err: err}
}

func NewFileSystem(op, path string, err error) error {
	return &ErrFileSystem{Op: op, Path: path, Err: err}
}

type coder interface {
	Code() Code
}

type detailer interface {
	Details() any
}

// CodeOf returns the taxonomy code of the first tagged error in the chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeUnknown
}

// DetailsOf returns structured details carried by a tagged error, if any.
func DetailsOf(err error) any {
	var d detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

func IsNotFound(err error) bool      { return CodeOf(err) == CodeNotFound }
func IsAlreadyExists(err error) bool { return CodeOf(err) == CodeAlreadyExists }
func IsValidation(err error) bool    { return CodeOf(err) == CodeValidation }
