package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/unclebandit/dmcodex/internal/model"
)

// relation tables counted into CampaignStats, in stats field order.
var relationCounts = []struct {
	table  string
	column string
}{
	{"npcs", "npc_count"},
	{"locations", "location_count"},
	{"quests", "quest_count"},
	{"encounters", "encounter_count"},
	{"chronicles", "chronicle_count"},
}

type countedRow struct {
	model.Campaign `gorm:"embedded"`
	NPCCount       int64 `gorm:"column:npc_count"`
	LocationCount  int64 `gorm:"column:location_count"`
	QuestCount     int64 `gorm:"column:quest_count"`
	EncounterCount int64 `gorm:"column:encounter_count"`
	ChronicleCount int64 `gorm:"column:chronicle_count"`
}

// GormGateway implements Gateway on top of gorm. It works with every dialect opened by internal/db.
type GormGateway struct {
	db    *gorm.DB
	newID func() string
}

func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{db: db, newID: uuid.NewString}
}

func (g *GormGateway) Create(ctx context.Context, fields CreateFields) (*Record, error) {
	c := model.Campaign{
		ID:             g.newID(),
		Name:           fields.Name,
		Description:    fields.Description,
		CoverImagePath: nullable(fields.CoverImagePath),
		Settings:       fields.Settings,
	}
	if err := g.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate("create campaign", err)
	}
	return &Record{Campaign: c}, nil
}

// FindByID returns nil, nil when no row matches.
func (g *GormGateway) FindByID(ctx context.Context, id string, include Include) (*Record, error) {
	rows, err := g.find(ctx, Query{Filter: Filter{ID: id}, Include: include}, 1)
	if err != nil {
		return nil, translate("find campaign", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindFirst returns nil, nil when no row matches.
func (g *GormGateway) FindFirst(ctx context.Context, filter Filter) (*Record, error) {
	rows, err := g.find(ctx, Query{Filter: filter}, 1)
	if err != nil {
		return nil, translate("find campaign", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (g *GormGateway) FindMany(ctx context.Context, query Query) ([]Record, error) {
	rows, err := g.find(ctx, query, 0)
	if err != nil {
		return nil, translate("list campaigns", err)
	}
	return rows, nil
}

func (g *GormGateway) Update(ctx context.Context, id string, fields UpdateFields) (*Record, error) {
	updates := map[string]any{"updated_at": g.db.NowFunc()}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.CoverImagePath != nil {
		if *fields.CoverImagePath == "" {
			updates["cover_image_path"] = nil
		} else {
			updates["cover_image_path"] = *fields.CoverImagePath
		}
	}
	if fields.Settings != nil {
		updates["settings"] = fields.Settings
	}
	if fields.LastPlayedAt != nil {
		// stored as text on sqlite, so one offset keeps ORDER BY chronological
		updates["last_played_at"] = fields.LastPlayedAt.UTC()
	}

	res := g.db.WithContext(ctx).Model(&model.Campaign{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate("update campaign", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, translate("update campaign", gorm.ErrRecordNotFound)
	}

	rec, err := g.FindByID(ctx, id, Include{})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, translate("update campaign", gorm.ErrRecordNotFound)
	}
	return rec, nil
}

// Delete removes the campaign and every dependent row in one transaction.
func (g *GormGateway) Delete(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range model.RelatedModels() {
			if err := tx.Where("campaign_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translate("delete campaign", err)
	}
	return nil
}

func (g *GormGateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return translate("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return translate("ping", err)
	}
	return nil
}

func (g *GormGateway) find(ctx context.Context, q Query, limit int) ([]Record, error) {
	tx := g.db.WithContext(ctx).Table("campaigns")
	if q.Filter.ID != "" {
		tx = tx.Where("campaigns.id = ?", q.Filter.ID)
	}
	if q.Filter.Name != "" {
		tx = tx.Where("campaigns.name = ?", q.Filter.Name)
	}
	if q.Filter.ExcludeID != "" {
		tx = tx.Where("campaigns.id <> ?", q.Filter.ExcludeID)
	}
	for _, s := range q.OrderBy {
		clause, err := orderClause(s)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if !q.Include.Counts {
		var campaigns []model.Campaign
		if err := tx.Find(&campaigns).Error; err != nil {
			return nil, err
		}
		records := make([]Record, len(campaigns))
		for i, c := range campaigns {
			records[i] = Record{Campaign: c}
		}
		return records, nil
	}

	var rows []countedRow
	if err := tx.Select(countSelect()).Scan(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{
			Campaign: r.Campaign,
			Counts: &model.CampaignStats{
				NPCCount:       r.NPCCount,
				LocationCount:  r.LocationCount,
				QuestCount:     r.QuestCount,
				EncounterCount: r.EncounterCount,
				ChronicleCount: r.ChronicleCount,
			},
		}
	}
	return records, nil
}

func countSelect() string {
	cols := []string{"campaigns.*"}
	for _, rc := range relationCounts {
		cols = append(cols, fmt.Sprintf(
			"(SELECT COUNT(*) FROM %s WHERE %s.campaign_id = campaigns.id) AS %s",
			rc.table, rc.table, rc.column,
		))
	}
	return strings.Join(cols, ", ")
}

// orderClause renders a sort key. NULLS LAST is expressed portably as "col IS NULL" first.
func orderClause(s Sort) (string, error) {
	switch s.Field {
	case SortLastPlayedAt, SortUpdatedAt, SortCreatedAt, SortName:
	default:
		return "", fmt.Errorf("unsupported sort field %q", s.Field)
	}
	col := "campaigns." + string(s.Field)
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if s.NullsLast {
		return fmt.Sprintf("%s IS NULL, %s %s", col, col, dir), nil
	}
	return col + " " + dir, nil
}

func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func translate(op string, err error) error {
	code := CodeInternal
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = CodeRecordNotFound
	case isUniqueViolation(err):
		code = CodeUniqueViolation
	}
	return &Error{Code: code, Op: op, Err: err}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlite drivers that do not translate constraint errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ Gateway = (*GormGateway)(nil)
