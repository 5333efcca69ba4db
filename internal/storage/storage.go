// Package storage is the narrow CRUD gateway over persisted campaign records.
// It owns no business logic; callers translate its error codes into domain errors.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/unclebandit/dmcodex/internal/model"
)

// Code is a machine-readable storage failure code.
type Code string

const (
	CodeUniqueViolation Code = "UNIQUE_VIOLATION"
	CodeRecordNotFound  Code = "RECORD_NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func codeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool { return codeOf(err) == CodeUniqueViolation }
func IsRecordNotFound(err error) bool  { return codeOf(err) == CodeRecordNotFound }

// CreateFields are the caller-supplied columns of a new campaign.
type CreateFields struct {
	Name           string
	Description    *string
	CoverImagePath *string
	Settings       datatypes.JSON
}

// UpdateFields changes only non-nil columns. An empty CoverImagePath stores NULL; empty Name and
// Description are stored as "". LastPlayedAt is stored in UTC.
type UpdateFields struct {
	Name           *string
	Description    *string
	CoverImagePath *string
	Settings       datatypes.JSON
	LastPlayedAt   *time.Time
}

// Filter matches campaigns. Zero fields are ignored.
type Filter struct {
	ID        string
	Name      string
	ExcludeID string
}

type Include struct {
	// Counts attaches related-entity counts computed in the same query.
	Counts bool
}

type SortField string

const (
	SortLastPlayedAt SortField = "last_played_at"
	SortUpdatedAt    SortField = "updated_at"
	SortCreatedAt    SortField = "created_at"
	SortName         SortField = "name"
)

type Sort struct {
	Field     SortField
	Desc      bool
	NullsLast bool
}

type Query struct {
	Filter  Filter
	Include Include
	OrderBy []Sort
}

// Record is a campaign row, optionally carrying relation counts.
type Record struct {
	model.Campaign
	Counts *model.CampaignStats
}

// Gateway is the CRUD contract the campaign repository depends on.
// Deleting a campaign also deletes its dependent rows.
type Gateway interface {
	Create(ctx context.Context, fields CreateFields) (*Record, error)
	FindByID(ctx context.Context, id string, include Include) (*Record, error)
	FindFirst(ctx context.Context, filter Filter) (*Record, error)
	FindMany(ctx context.Context, query Query) ([]Record, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Record, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
