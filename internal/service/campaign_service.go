// internal/service/campaign_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/dmcodex/internal/assets"
	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
	"github.com/unclebandit/dmcodex/internal/queue"
	"github.com/unclebandit/dmcodex/internal/repository"
)

type CampaignServiceInterface interface {
	Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error)
	FindAll(ctx context.Context) ([]model.CampaignWithStats, error)
	FindByID(ctx context.Context, id string) (*model.CampaignWithStats, error)
	Update(ctx context.Context, in model.UpdateCampaignInput) (*model.Campaign, error)
	Delete(ctx context.Context, id string) error
	UpdateLastPlayed(ctx context.Context, id string) (*model.Campaign, error)
	SetCoverImage(ctx context.Context, id, sourcePath string) (*model.Campaign, error)
	RemoveCoverImage(ctx context.Context, id string) (*model.Campaign, error)
	GetStatistics(ctx context.Context, id string) (*model.CampaignStats, error)
	Ping(ctx context.Context) error
}

// CampaignService keeps each campaign row and its asset tree in agreement.
//
// Create and delete are two-phase with no shared transaction. Create rolls the row back when the
// tree cannot be built. Delete treats the committed row deletion as success and only logs a tree
// that could not be removed. Neither retries cleanup; leftovers are published as orphan events.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Tree         *assets.Tree
	Queue        queue.Queue
	Log          *zap.Logger
	Now          func() time.Time
}

func NewCampaignService(repo repository.CampaignRepositoryInterface, tree *assets.Tree, q queue.Queue, log *zap.Logger) *CampaignService {
	if q == nil {
		q = queue.NopQueue{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CampaignService{CampaignRepo: repo, Tree: tree, Queue: q, Log: log, Now: time.Now}
}

// Create inserts the row, then builds the asset tree. A coverImagePath is imported into the new tree.
func (s *CampaignService) Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	// pre-check only; the unique index on name is what holds under concurrent creates
	exists, err := s.CampaignRepo.NameExists(ctx, in.Name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.NewCampaignNameExists(in.Name)
	}

	campaign, err := s.CampaignRepo.Create(ctx, model.CreateCampaignInput{Name: in.Name, Description: in.Description})
	if err != nil {
		return nil, err
	}

	if err := s.Tree.Create(campaign.ID); err != nil {
		s.rollbackCreate(ctx, campaign, err, false)
		return nil, err
	}

	if in.CoverImagePath != nil && *in.CoverImagePath != "" {
		withCover, err := s.importCover(ctx, campaign.ID, *in.CoverImagePath)
		if err != nil {
			s.rollbackCreate(ctx, campaign, err, true)
			return nil, err
		}
		campaign = withCover
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventCreated, CampaignID: campaign.ID, Name: campaign.Name})
	return campaign, nil
}

// rollbackCreate is a single best-effort attempt. Failures are logged and reported, never returned.
func (s *CampaignService) rollbackCreate(ctx context.Context, campaign *model.Campaign, cause error, removeTree bool) {
	ctx = context.WithoutCancel(ctx)
	log := s.Log.With(zap.String("campaign_id", campaign.ID), zap.NamedError("cause", cause))

	log.Warn("⚠️ Rolling back campaign create")
	if err := s.CampaignRepo.Delete(ctx, campaign.ID); err != nil {
		log.Error("❌ Failed to cleanup campaign after folder creation error", zap.Error(err))
		s.publish(queue.LifecycleEvent{
			Type:       queue.EventOrphanedRow,
			CampaignID: campaign.ID,
			Name:       campaign.Name,
			Error:      err.Error(),
		})
	}

	if !removeTree {
		return
	}
	if err := s.Tree.Remove(campaign.ID); err != nil {
		log.Error("❌ Failed to remove campaign folders during rollback", zap.Error(err))
		s.publish(queue.LifecycleEvent{
			Type:       queue.EventOrphanedTree,
			CampaignID: campaign.ID,
			Path:       s.Tree.Root(campaign.ID),
			Error:      err.Error(),
		})
	}
}

func (s *CampaignService) FindAll(ctx context.Context) ([]model.CampaignWithStats, error) {
	return s.CampaignRepo.FindAll(ctx)
}

// FindByID returns nil, nil when no campaign has the id.
func (s *CampaignService) FindByID(ctx context.Context, id string) (*model.CampaignWithStats, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.CampaignRepo.FindByID(ctx, id)
}

// Update never touches the filesystem. A coverImagePath must already live in the campaign's cover folder.
func (s *CampaignService) Update(ctx context.Context, in model.UpdateCampaignInput) (*model.Campaign, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	existing, err := s.mustFind(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != existing.Name {
		exists, err := s.CampaignRepo.NameExists(ctx, *in.Name, in.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, appErrors.NewCampaignNameExists(*in.Name)
		}
	}

	if in.CoverImagePath != nil && *in.CoverImagePath != "" && !s.Tree.InCoverDir(in.ID, *in.CoverImagePath) {
		return nil, appErrors.NewValidation("coverImagePath", msgCoverOutside)
	}

	campaign, err := s.CampaignRepo.Update(ctx, in)
	if err != nil {
		return nil, err
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventUpdated, CampaignID: campaign.ID, Name: campaign.Name})
	return campaign, nil
}

// Delete removes the row first. Once that commits the call succeeds even if the tree cannot be removed.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	existing, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}

	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.Tree.Remove(id); err != nil {
		s.Log.Error("❌ Failed to delete campaign folders",
			zap.String("campaign_id", id),
			zap.Error(err))
		s.publish(queue.LifecycleEvent{
			Type:       queue.EventOrphanedTree,
			CampaignID: id,
			Name:       existing.Name,
			Path:       s.Tree.Root(id),
			Error:      err.Error(),
		})
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventDeleted, CampaignID: id, Name: existing.Name})
	return nil
}

func (s *CampaignService) UpdateLastPlayed(ctx context.Context, id string) (*model.Campaign, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	campaign, err := s.CampaignRepo.UpdateLastPlayed(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventPlayed, CampaignID: id, Name: campaign.Name})
	return campaign, nil
}

// SetCoverImage copies sourcePath to cover/cover{ext} and points the campaign at the copy.
func (s *CampaignService) SetCoverImage(ctx context.Context, id, sourcePath string) (*model.Campaign, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if sourcePath == "" {
		return nil, appErrors.NewValidation("sourcePath", msgSourceMissing)
	}

	existing, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	campaign, err := s.importCover(ctx, id, sourcePath)
	if err != nil {
		return nil, err
	}

	// a previous cover with another extension is not overwritten by the copy
	if old := existing.CoverImagePath; old != nil && *old != *campaign.CoverImagePath && s.Tree.InCoverDir(id, *old) {
		if err := s.Tree.RemoveFile(*old); err != nil {
			s.Log.Warn("⚠️ Failed to remove previous cover image", zap.String("campaign_id", id), zap.Error(err))
		}
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventCoverSet, CampaignID: id, Path: *campaign.CoverImagePath})
	return campaign, nil
}

// importCover copies the file before the pointer is written. A failed write leaves an unreferenced copy.
func (s *CampaignService) importCover(ctx context.Context, id, sourcePath string) (*model.Campaign, error) {
	dst, err := s.Tree.ImportCover(id, sourcePath)
	if err != nil {
		return nil, err
	}
	return s.CampaignRepo.Update(ctx, model.UpdateCampaignInput{ID: id, CoverImagePath: &dst})
}

// RemoveCoverImage is idempotent: a missing file or an unset pointer is not an error.
func (s *CampaignService) RemoveCoverImage(ctx context.Context, id string) (*model.Campaign, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	existing, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	// only files we own are deleted
	if path := existing.CoverImagePath; path != nil && *path != "" && s.Tree.InCoverDir(id, *path) {
		if err := s.Tree.RemoveFile(*path); err != nil {
			return nil, err
		}
	}

	cleared := ""
	campaign, err := s.CampaignRepo.Update(ctx, model.UpdateCampaignInput{ID: id, CoverImagePath: &cleared})
	if err != nil {
		return nil, err
	}

	s.publish(queue.LifecycleEvent{Type: queue.EventCoverRemoved, CampaignID: id})
	return campaign, nil
}

// GetStatistics returns nil, nil when no campaign has the id.
func (s *CampaignService) GetStatistics(ctx context.Context, id string) (*model.CampaignStats, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.CampaignRepo.GetStatistics(ctx, id)
}

// Ping reports whether storage is reachable.
func (s *CampaignService) Ping(ctx context.Context) error {
	return s.CampaignRepo.Ping(ctx)
}

func (s *CampaignService) mustFind(ctx context.Context, id string) (*model.CampaignWithStats, error) {
	campaign, err := s.CampaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return campaign, nil
}

// publish never fails the caller.
func (s *CampaignService) publish(event queue.LifecycleEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.Queue.Publish(queue.TopicLifecycle, event); err != nil {
		if errors.Is(err, queue.ErrNoSubscribers) {
			s.Log.Debug("No lifecycle subscribers", zap.String("event", string(event.Type)))
			return
		}
		s.Log.Warn("⚠️ Failed to publish lifecycle event",
			zap.String("event", string(event.Type)),
			zap.String("campaign_id", event.CampaignID),
			zap.Error(err))
	}
}

func (s *CampaignService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

var _ CampaignServiceInterface = (*CampaignService)(nil)
