package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/unclebandit/dmcodex/internal/config"
	"github.com/unclebandit/dmcodex/internal/db"
	"github.com/unclebandit/dmcodex/internal/model"
)

func newTestGateway(t *testing.T) (*GormGateway, *gorm.DB) {
	t.Helper()
	conn, err := db.Open(context.Background(), config.DatabaseConfig{
		Type: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return NewGormGateway(conn), conn
}

func strPtr(s string) *string { return &s }

func TestGormGateway_Create(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	rec, err := gw.Create(ctx, CreateFields{
		Name:        "Curse of Strahd",
		Description: strPtr("A gothic horror adventure in Barovia"),
		Settings:    datatypes.JSON(`{"theme":"horror"}`),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Curse of Strahd", rec.Name)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.False(t, rec.UpdatedAt.IsZero())
	assert.Nil(t, rec.LastPlayedAt)
	assert.Nil(t, rec.Counts)

	got, err := gw.FindByID(ctx, rec.ID, Include{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"theme":"horror"}`, string(got.Settings))
	assert.Equal(t, "A gothic horror adventure in Barovia", *got.Description)
}

func TestGormGateway_CreateDuplicateName(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := gw.Create(ctx, CreateFields{Name: "Tomb of Annihilation"})
	require.NoError(t, err)

	_, err = gw.Create(ctx, CreateFields{Name: "Tomb of Annihilation"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "got %v", err)

	// uniqueness is case-sensitive
	_, err = gw.Create(ctx, CreateFields{Name: "tomb of annihilation"})
	assert.NoError(t, err)
}

func TestGormGateway_FindByIDMissing(t *testing.T) {
	gw, _ := newTestGateway(t)

	rec, err := gw.FindByID(context.Background(), uuid.NewString(), Include{Counts: true})
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGormGateway_FindByIDWithCounts(t *testing.T) {
	gw, conn := newTestGateway(t)
	ctx := context.Background()

	rec, err := gw.Create(ctx, CreateFields{Name: "Waterdeep"})
	require.NoError(t, err)
	other, err := gw.Create(ctx, CreateFields{Name: "Descent into Avernus"})
	require.NoError(t, err)

	require.NoError(t, conn.Create(&model.NPC{ID: uuid.NewString(), CampaignID: rec.ID, Name: "Volo"}).Error)
	require.NoError(t, conn.Create(&model.NPC{ID: uuid.NewString(), CampaignID: rec.ID, Name: "Laeral"}).Error)
	require.NoError(t, conn.Create(&model.Quest{ID: uuid.NewString(), CampaignID: rec.ID, Title: "Dragon Heist"}).Error)
	require.NoError(t, conn.Create(&model.NPC{ID: uuid.NewString(), CampaignID: other.ID, Name: "Zariel"}).Error)

	got, err := gw.FindByID(ctx, rec.ID, Include{Counts: true})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Counts)
	assert.Equal(t, model.CampaignStats{NPCCount: 2, QuestCount: 1}, *got.Counts)
	assert.Equal(t, "Waterdeep", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGormGateway_FindManyOrdering(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	never, err := gw.Create(ctx, CreateFields{Name: "Never Played"})
	require.NoError(t, err)
	older, err := gw.Create(ctx, CreateFields{Name: "Older"})
	require.NoError(t, err)
	newer, err := gw.Create(ctx, CreateFields{Name: "Newer"})
	require.NoError(t, err)

	t1 := time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
	_, err = gw.Update(ctx, older.ID, UpdateFields{LastPlayedAt: &t1})
	require.NoError(t, err)
	_, err = gw.Update(ctx, newer.ID, UpdateFields{LastPlayedAt: &t2})
	require.NoError(t, err)

	rows, err := gw.FindMany(ctx, Query{
		Include: Include{Counts: true},
		OrderBy: []Sort{
			{Field: SortLastPlayedAt, Desc: true, NullsLast: true},
			{Field: SortUpdatedAt, Desc: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{newer.ID, older.ID, never.ID}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	for _, r := range rows {
		assert.NotNil(t, r.Counts)
	}
}

func TestGormGateway_FindManyOrderingMixedOffsets(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	earlier, err := gw.Create(ctx, CreateFields{Name: "Earlier"})
	require.NoError(t, err)
	later, err := gw.Create(ctx, CreateFields{Name: "Later"})
	require.NoError(t, err)

	// 15:00+05:00 is 10:00Z, two hours before t2 but lexically greater
	t1 := time.Date(2026, 3, 1, 15, 0, 0, 0, time.FixedZone("PKT", 5*3600))
	t2 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, t2.After(t1))

	_, err = gw.Update(ctx, earlier.ID, UpdateFields{LastPlayedAt: &t1})
	require.NoError(t, err)
	updated, err := gw.Update(ctx, later.ID, UpdateFields{LastPlayedAt: &t2})
	require.NoError(t, err)
	require.NotNil(t, updated.LastPlayedAt)
	assert.True(t, updated.LastPlayedAt.Equal(t2))

	rows, err := gw.FindMany(ctx, Query{OrderBy: []Sort{{Field: SortLastPlayedAt, Desc: true, NullsLast: true}}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Later", "Earlier"}, []string{rows[0].Name, rows[1].Name})

	got, err := gw.FindByID(ctx, earlier.ID, Include{})
	require.NoError(t, err)
	require.NotNil(t, got.LastPlayedAt)
	assert.True(t, got.LastPlayedAt.Equal(t1))
}

func TestGormGateway_FindManyRejectsUnknownSort(t *testing.T) {
	gw, _ := newTestGateway(t)

	_, err := gw.FindMany(context.Background(), Query{OrderBy: []Sort{{Field: "name; DROP TABLE campaigns"}}})
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CodeInternal, se.Code)
}

func TestGormGateway_FindFirst(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	rec, err := gw.Create(ctx, CreateFields{Name: "Rime of the Frostmaiden"})
	require.NoError(t, err)

	got, err := gw.FindFirst(ctx, Filter{Name: "Rime of the Frostmaiden"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)

	got, err = gw.FindFirst(ctx, Filter{Name: "Rime of the Frostmaiden", ExcludeID: rec.ID})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = gw.FindFirst(ctx, Filter{Name: "Nope"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormGateway_Update(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	rec, err := gw.Create(ctx, CreateFields{Name: "Old Name", CoverImagePath: strPtr("/data/campaigns/x/cover/cover.png")})
	require.NoError(t, err)
	require.NotNil(t, rec.CoverImagePath)

	time.Sleep(5 * time.Millisecond)
	updated, err := gw.Update(ctx, rec.ID, UpdateFields{Name: strPtr("New Name"), Description: strPtr(""), CoverImagePath: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Nil(t, updated.CoverImagePath)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(rec.UpdatedAt), "updatedAt %v should be after %v", updated.UpdatedAt, rec.UpdatedAt)
	assert.True(t, updated.CreatedAt.Equal(rec.CreatedAt))
}

func TestGormGateway_UpdateErrors(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	_, err := gw.Update(ctx, uuid.NewString(), UpdateFields{Name: strPtr("Ghost")})
	assert.True(t, IsRecordNotFound(err), "got %v", err)

	_, err = gw.Create(ctx, CreateFields{Name: "Taken"})
	require.NoError(t, err)
	rec, err := gw.Create(ctx, CreateFields{Name: "Free"})
	require.NoError(t, err)

	_, err = gw.Update(ctx, rec.ID, UpdateFields{Name: strPtr("Taken")})
	assert.True(t, IsUniqueViolation(err), "got %v", err)
}

func TestGormGateway_DeleteCascades(t *testing.T) {
	gw, conn := newTestGateway(t)
	ctx := context.Background()

	rec, err := gw.Create(ctx, CreateFields{Name: "Out of the Abyss"})
	require.NoError(t, err)
	require.NoError(t, conn.Create(&model.Location{ID: uuid.NewString(), CampaignID: rec.ID, Name: "Velkynvelve"}).Error)
	require.NoError(t, conn.Create(&model.Chronicle{ID: uuid.NewString(), CampaignID: rec.ID, Title: "Session 1"}).Error)
	require.NoError(t, conn.Create(&model.Encounter{ID: uuid.NewString(), CampaignID: rec.ID, Title: "Demogorgon"}).Error)

	require.NoError(t, gw.Delete(ctx, rec.ID))

	got, err := gw.FindByID(ctx, rec.ID, Include{})
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, m := range model.RelatedModels() {
		var n int64
		require.NoError(t, conn.Model(m).Where("campaign_id = ?", rec.ID).Count(&n).Error)
		assert.Zero(t, n)
	}

	err = gw.Delete(ctx, rec.ID)
	assert.True(t, IsRecordNotFound(err), "got %v", err)
}

func TestGormGateway_Ping(t *testing.T) {
	gw, conn := newTestGateway(t)
	assert.NoError(t, gw.Ping(context.Background()))

	require.NoError(t, db.Close(conn))
	assert.Error(t, gw.Ping(context.Background()))
}
