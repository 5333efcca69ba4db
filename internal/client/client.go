// internal/client/client.go
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
	"github.com/unclebandit/dmcodex/internal/protocol"
)

// Error is what callers of Client see. Message is user-facing copy; the server text is kept in Details
// unless the server already sent structured details.
type Error struct {
	Message string
	Code    protocol.ErrorCode
	Details any
}

func (e *Error) Error() string { return e.Message }

// CampaignClient is the caller-side facade over a Transport.
type CampaignClient struct {
	Transport Transport
}

func New(t Transport) *CampaignClient {
	return &CampaignClient{Transport: t}
}

func (c *CampaignClient) Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error) {
	out, err := call(ctx, c.Transport, protocol.CampaignCreate, in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CampaignClient) FindAll(ctx context.Context) ([]model.CampaignWithStats, error) {
	return call(ctx, c.Transport, protocol.CampaignFindAll, protocol.Void{})
}

// FindByID returns nil, nil for an unknown id.
func (c *CampaignClient) FindByID(ctx context.Context, id string) (*model.CampaignWithStats, error) {
	return call(ctx, c.Transport, protocol.CampaignFindByID, protocol.IDInput{ID: id})
}

func (c *CampaignClient) Update(ctx context.Context, in model.UpdateCampaignInput) (*model.Campaign, error) {
	out, err := call(ctx, c.Transport, protocol.CampaignUpdate, in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CampaignClient) Delete(ctx context.Context, id string) error {
	_, err := call(ctx, c.Transport, protocol.CampaignDelete, protocol.IDInput{ID: id})
	return err
}

func (c *CampaignClient) UpdateLastPlayed(ctx context.Context, id string) (*model.Campaign, error) {
	out, err := call(ctx, c.Transport, protocol.CampaignUpdateLastPlayed, protocol.IDInput{ID: id})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CampaignClient) SetCoverImage(ctx context.Context, id, sourcePath string) (*model.Campaign, error) {
	out, err := call(ctx, c.Transport, protocol.CampaignSetCoverImage, protocol.SetCoverImageInput{ID: id, SourcePath: sourcePath})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CampaignClient) RemoveCoverImage(ctx context.Context, id string) (*model.Campaign, error) {
	out, err := call(ctx, c.Transport, protocol.CampaignRemoveCoverImage, protocol.IDInput{ID: id})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CampaignClient) GetStatistics(ctx context.Context, id string) (*model.CampaignStats, error) {
	return call(ctx, c.Transport, protocol.CampaignGetStatistics, protocol.IDInput{ID: id})
}

func (c *CampaignClient) Status(ctx context.Context) (*protocol.SystemStatus, error) {
	out, err := call(ctx, c.Transport, protocol.SystemStatusChannel, protocol.Void{})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func call[In, Out any](ctx context.Context, t Transport, ch protocol.Channel[In, Out], in In) (Out, error) {
	var zero Out

	env, err := t.Invoke(ctx, ch.Name, in)
	if err != nil {
		return zero, unknownError(err)
	}

	out, info, err := protocol.Decode[Out](env)
	if err != nil {
		return zero, unknownError(err)
	}
	if info != nil {
		return zero, fromInfo(info)
	}
	return out, nil
}

func fromInfo(info *protocol.ErrorInfo) *Error {
	details := info.Details
	if details == nil {
		details = info.Message
	}
	return &Error{
		Message: FriendlyMessage(info.Code, info.Message),
		Code:    info.Code,
		Details: details,
	}
}

func unknownError(err error) *Error {
	return &Error{
		Message: fmt.Sprintf("Something went wrong: %v", err),
		Code:    appErrors.CodeUnknown,
		Details: err,
	}
}

// FriendlyMessage rewrites server messages into UI copy keyed by code.
func FriendlyMessage(code protocol.ErrorCode, message string) string {
	switch code {
	case appErrors.CodeValidation:
		switch {
		case strings.Contains(message, "name is required"):
			return "Campaign name is required"
		case strings.Contains(message, "name must be less than"):
			return "Campaign name is too long (maximum 100 characters)"
		case strings.Contains(message, "Invalid campaign ID"):
			return "Invalid campaign selected"
		}
		return "Validation error: " + message

	case appErrors.CodeAlreadyExists:
		return "A campaign with this name already exists. Please choose a different name."

	case appErrors.CodeNotFound:
		return "Campaign not found. It may have been deleted."

	case appErrors.CodeDatabase:
		return "Database error occurred. Please try again or restart the application."

	case appErrors.CodeFileSystem:
		if strings.Contains(message, "create campaign folders") {
			return "Failed to create campaign folders. Please check disk space and permissions."
		}
		return "File system error occurred. Please check disk space and permissions."
	}
	return "An error occurred: " + message
}

// CodeOf returns the code of a client error, or UNKNOWN_ERROR.
func CodeOf(err error) protocol.ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return appErrors.CodeUnknown
}
