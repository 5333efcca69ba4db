package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*model.Campaign)
	return c, args.Error(1)
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
campaigns:
  - name: Curse of Strahd
    description: Barovia
    cover_image: covers/strahd.png
  - name: Tomb of Annihilation
    cover_image: /abs/tomb.jpg
`), 0o644))

	sf, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, sf.Campaigns, 2)

	assert.Equal(t, "Curse of Strahd", sf.Campaigns[0].Name)
	require.NotNil(t, sf.Campaigns[0].Description)
	assert.Equal(t, "Barovia", *sf.Campaigns[0].Description)
	assert.Equal(t, filepath.Join(dir, "covers", "strahd.png"), sf.Campaigns[0].CoverImage)
	assert.Nil(t, sf.Campaigns[1].Description)
	assert.Equal(t, "/abs/tomb.jpg", sf.Campaigns[1].CoverImage)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("campaigns: [name"), 0o644))

	_, err := LoadSeedFile(path)
	assert.Error(t, err)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSeedFile_Bundled(t *testing.T) {
	sf, err := LoadSeedFile(filepath.Join("..", "..", "seed", "campaigns.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, sf.Campaigns)
}

func TestSeed(t *testing.T) {
	svc := new(MockCreator)
	sf := &SeedFile{Campaigns: []SeedCampaign{
		{Name: "Curse of Strahd", CoverImage: "/covers/strahd.png"},
		{Name: "Existing"},
		{Name: "Broken"},
	}}

	cover := "/covers/strahd.png"
	svc.On("Create", mock.Anything, model.CreateCampaignInput{Name: "Curse of Strahd", CoverImagePath: &cover}).
		Return(&model.Campaign{ID: "1", Name: "Curse of Strahd"}, nil)
	svc.On("Create", mock.Anything, model.CreateCampaignInput{Name: "Existing"}).
		Return(nil, appErrors.NewCampaignNameExists("Existing"))
	svc.On("Create", mock.Anything, model.CreateCampaignInput{Name: "Broken"}).
		Return(nil, appErrors.NewDatabase("create campaign", errors.New("disk full")))

	var out bytes.Buffer
	res := Seed(context.Background(), svc, sf, &out)

	assert.Equal(t, Result{Created: 1, Skipped: 1, Failed: 1}, res)
	assert.Contains(t, out.String(), "Seeded: Curse of Strahd (1)")
	assert.Contains(t, out.String(), "Skipped: Existing (already exists)")
	assert.Contains(t, out.String(), "Failed: Broken")
	svc.AssertExpectations(t)
}
