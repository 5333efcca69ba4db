// internal/controller/campaign_controller.go
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
	"github.com/unclebandit/dmcodex/internal/protocol"
	"github.com/unclebandit/dmcodex/internal/service"
)

const (
	msgInvalidChannel = "Invalid protocol channel"
	msgInvalidPayload = "Invalid request payload"
	msgUnexpected     = "Unexpected error occurred"
)

type handlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// CampaignController dispatches protocol channels to the campaign service and wraps every outcome in an envelope.
type CampaignController struct {
	CampaignService service.CampaignServiceInterface
	Log             *zap.Logger

	handlers map[protocol.Name]handlerFunc
}

func NewCampaignController(svc service.CampaignServiceInterface, log *zap.Logger) *CampaignController {
	if log == nil {
		log = zap.NewNop()
	}
	c := &CampaignController{CampaignService: svc, Log: log}
	c.handlers = map[protocol.Name]handlerFunc{
		protocol.CampaignCreate.Name: bind(protocol.CampaignCreate, func(ctx context.Context, in model.CreateCampaignInput) (model.Campaign, error) {
			return deref(svc.Create(ctx, in))
		}),
		protocol.CampaignFindAll.Name: bind(protocol.CampaignFindAll, func(ctx context.Context, _ protocol.Void) ([]model.CampaignWithStats, error) {
			list, err := svc.FindAll(ctx)
			if list == nil && err == nil {
				list = []model.CampaignWithStats{}
			}
			return list, err
		}),
		protocol.CampaignFindByID.Name: bind(protocol.CampaignFindByID, func(ctx context.Context, in protocol.IDInput) (*model.CampaignWithStats, error) {
			return svc.FindByID(ctx, in.ID)
		}),
		protocol.CampaignUpdate.Name: bind(protocol.CampaignUpdate, func(ctx context.Context, in model.UpdateCampaignInput) (model.Campaign, error) {
			return deref(svc.Update(ctx, in))
		}),
		protocol.CampaignDelete.Name: bind(protocol.CampaignDelete, func(ctx context.Context, in protocol.IDInput) (protocol.Void, error) {
			return protocol.Void{}, svc.Delete(ctx, in.ID)
		}),
		protocol.CampaignUpdateLastPlayed.Name: bind(protocol.CampaignUpdateLastPlayed, func(ctx context.Context, in protocol.IDInput) (model.Campaign, error) {
			return deref(svc.UpdateLastPlayed(ctx, in.ID))
		}),
		protocol.CampaignSetCoverImage.Name: bind(protocol.CampaignSetCoverImage, func(ctx context.Context, in protocol.SetCoverImageInput) (model.Campaign, error) {
			return deref(svc.SetCoverImage(ctx, in.ID, in.SourcePath))
		}),
		protocol.CampaignRemoveCoverImage.Name: bind(protocol.CampaignRemoveCoverImage, func(ctx context.Context, in protocol.IDInput) (model.Campaign, error) {
			return deref(svc.RemoveCoverImage(ctx, in.ID))
		}),
		protocol.CampaignGetStatistics.Name: bind(protocol.CampaignGetStatistics, func(ctx context.Context, in protocol.IDInput) (*model.CampaignStats, error) {
			return svc.GetStatistics(ctx, in.ID)
		}),
		protocol.SystemStatusChannel.Name: bind(protocol.SystemStatusChannel, func(ctx context.Context, _ protocol.Void) (protocol.SystemStatus, error) {
			return c.status(ctx), nil
		}),
	}
	return c
}

// Dispatch never panics and never returns a Go error: every outcome is an envelope.
func (c *CampaignController) Dispatch(ctx context.Context, channel string, payload json.RawMessage) (env protocol.Envelope) {
	name := protocol.Name(channel)
	log := c.Log.With(zap.String("channel", channel))

	handler, ok := c.handlers[name]
	if !ok {
		log.Warn("⚠️ Unknown protocol channel")
		return protocol.FailureWith(appErrors.CodeValidation, msgInvalidChannel, map[string]string{"channel": channel})
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("❌ Protocol handler panicked", zap.Any("panic", r))
			env = protocol.FailureWith(appErrors.CodeUnknown, msgUnexpected, nil)
		}
	}()

	out, err := handler(ctx, payload)
	if err != nil {
		c.logFailure(log, err)
		return protocol.Failure(err)
	}

	env, err = protocol.Success(out)
	if err != nil {
		log.Error("❌ Failed to encode protocol response", zap.Error(err))
		return protocol.FailureWith(appErrors.CodeUnknown, msgUnexpected, nil)
	}
	return env
}

func (c *CampaignController) logFailure(log *zap.Logger, err error) {
	switch code := appErrors.CodeOf(err); code {
	case appErrors.CodeValidation, appErrors.CodeAlreadyExists, appErrors.CodeNotFound:
		log.Warn("⚠️ Campaign protocol request rejected", zap.String("code", string(code)), zap.Error(err))
	default:
		log.Error("❌ Campaign protocol handler error", zap.String("code", string(code)), zap.Error(err))
	}
}

func (c *CampaignController) status(ctx context.Context) protocol.SystemStatus {
	connected := true
	if err := c.CampaignService.Ping(ctx); err != nil {
		c.Log.Warn("⚠️ Database health check failed", zap.Error(err))
		connected = false
	}
	return protocol.SystemStatus{
		ProtocolVersion:   protocol.Version,
		Ready:             true,
		DatabaseConnected: connected,
		Channels:          protocol.Names(),
	}
}

// bind ties a typed service call to its channel so the input and output types cannot drift.
func bind[In, Out any](_ protocol.Channel[In, Out], fn func(ctx context.Context, in In) (Out, error)) handlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		in, err := decodePayload[In](payload)
		if err != nil {
			return nil, err
		}
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func decodePayload[In any](payload json.RawMessage) (In, error) {
	var in In
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return in, nil
	}
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return in, &appErrors.ErrValidation{Field: "payload", Message: msgInvalidPayload}
	}
	return in, nil
}

func deref[T any](v *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, fmt.Errorf("service returned no result")
	}
	return *v, nil
}
