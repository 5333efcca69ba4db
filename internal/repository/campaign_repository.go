package repository

import (
	"context"
	"time"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
	"github.com/unclebandit/dmcodex/internal/storage"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error)
	FindAll(ctx context.Context) ([]model.CampaignWithStats, error)
	FindByID(ctx context.Context, id string) (*model.CampaignWithStats, error)
	Update(ctx context.Context, in model.UpdateCampaignInput) (*model.Campaign, error)
	Delete(ctx context.Context, id string) error
	UpdateLastPlayed(ctx context.Context, id string) (*model.Campaign, error)
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	GetStatistics(ctx context.Context, id string) (*model.CampaignStats, error)
	Ping(ctx context.Context) error
}

// CampaignRepository translates domain verbs into gateway calls and storage codes into tagged errors.
type CampaignRepository struct {
	Gateway storage.Gateway
	Now     func() time.Time
}

func NewCampaignRepository(gw storage.Gateway) *CampaignRepository {
	return &CampaignRepository{Gateway: gw, Now: utcNow}
}

// findAll ordering: most recently played first, never-played last, then most recently updated.
var recentlyPlayed = []storage.Sort{
	{Field: storage.SortLastPlayedAt, Desc: true, NullsLast: true},
	{Field: storage.SortUpdatedAt, Desc: true},
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error) {
	rec, err := r.Gateway.Create(ctx, storage.CreateFields{
		Name:           in.Name,
		Description:    in.Description,
		CoverImagePath: in.CoverImagePath,
	})
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, appErrors.NewCampaignNameExists(in.Name)
		}
		return nil, appErrors.NewDatabase("create campaign", err)
	}
	return &rec.Campaign, nil
}

func (r *CampaignRepository) FindAll(ctx context.Context) ([]model.CampaignWithStats, error) {
	recs, err := r.Gateway.FindMany(ctx, storage.Query{
		Include: storage.Include{Counts: true},
		OrderBy: recentlyPlayed,
	})
	if err != nil {
		return nil, appErrors.NewDatabase("list campaigns", err)
	}

	campaigns := make([]model.CampaignWithStats, len(recs))
	for i := range recs {
		campaigns[i] = withStats(&recs[i])
	}
	return campaigns, nil
}

// FindByID returns nil, nil when the campaign does not exist.
func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*model.CampaignWithStats, error) {
	rec, err := r.Gateway.FindByID(ctx, id, storage.Include{Counts: true})
	if err != nil {
		return nil, appErrors.NewDatabase("find campaign", err)
	}
	if rec == nil {
		return nil, nil
	}
	c := withStats(rec)
	return &c, nil
}

func (r *CampaignRepository) Update(ctx context.Context, in model.UpdateCampaignInput) (*model.Campaign, error) {
	rec, err := r.Gateway.Update(ctx, in.ID, storage.UpdateFields{
		Name:           in.Name,
		Description:    in.Description,
		CoverImagePath: in.CoverImagePath,
		LastPlayedAt:   in.LastPlayedAt,
	})
	if err != nil {
		return nil, r.mapWriteError("update campaign", in.ID, in.Name, err)
	}
	return &rec.Campaign, nil
}

// Delete removes the row; dependent rows are cascaded by the gateway.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	if err := r.Gateway.Delete(ctx, id); err != nil {
		return r.mapWriteError("delete campaign", id, nil, err)
	}
	return nil
}

func (r *CampaignRepository) UpdateLastPlayed(ctx context.Context, id string) (*model.Campaign, error) {
	now := r.now()
	rec, err := r.Gateway.Update(ctx, id, storage.UpdateFields{LastPlayedAt: &now})
	if err != nil {
		return nil, r.mapWriteError("update last played", id, nil, err)
	}
	return &rec.Campaign, nil
}

// NameExists reports whether another campaign (not excludeID) already uses name exactly.
func (r *CampaignRepository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	rec, err := r.Gateway.FindFirst(ctx, storage.Filter{Name: name, ExcludeID: excludeID})
	if err != nil {
		return false, appErrors.NewDatabase("check campaign name", err)
	}
	return rec != nil, nil
}

// GetStatistics returns nil, nil when the campaign does not exist.
func (r *CampaignRepository) GetStatistics(ctx context.Context, id string) (*model.CampaignStats, error) {
	rec, err := r.Gateway.FindByID(ctx, id, storage.Include{Counts: true})
	if err != nil {
		return nil, appErrors.NewDatabase("campaign statistics", err)
	}
	if rec == nil {
		return nil, nil
	}
	stats := withStats(rec).Stats
	return &stats, nil
}

func (r *CampaignRepository) Ping(ctx context.Context) error {
	if err := r.Gateway.Ping(ctx); err != nil {
		return appErrors.NewDatabase("ping", err)
	}
	return nil
}

func (r *CampaignRepository) mapWriteError(op, id string, name *string, err error) error {
	switch {
	case storage.IsRecordNotFound(err):
		return appErrors.NewCampaignNotFound(id)
	case storage.IsUniqueViolation(err) && name != nil:
		return appErrors.NewCampaignNameExists(*name)
	}
	return appErrors.NewDatabase(op, err)
}

func (r *CampaignRepository) now() time.Time {
	if r.Now == nil {
		return utcNow()
	}
	return r.Now()
}

func utcNow() time.Time { return time.Now().UTC() }

// withStats defaults missing counts to zero.
func withStats(rec *storage.Record) model.CampaignWithStats {
	c := model.CampaignWithStats{Campaign: rec.Campaign}
	if rec.Counts != nil {
		c.Stats = *rec.Counts
	}
	return c
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
