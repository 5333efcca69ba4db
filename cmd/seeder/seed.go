package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
)

type SeedCampaign struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	CoverImage  string  `yaml:"cover_image"`
}

type SeedFile struct {
	Campaigns []SeedCampaign `yaml:"campaigns"`
}

// LoadSeedFile parses a seed file. Relative cover paths are resolved against the file's directory.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range sf.Campaigns {
		c := &sf.Campaigns[i]
		if c.CoverImage != "" && !filepath.IsAbs(c.CoverImage) {
			abs, err := filepath.Abs(filepath.Join(base, c.CoverImage))
			if err != nil {
				return nil, err
			}
			c.CoverImage = abs
		}
	}
	return &sf, nil
}

type Creator interface {
	Create(ctx context.Context, in model.CreateCampaignInput) (*model.Campaign, error)
}

type Result struct {
	Created, Skipped, Failed int
}

// Seed creates each campaign in order. Names that already exist are skipped, so reseeding is safe.
func Seed(ctx context.Context, svc Creator, sf *SeedFile, out io.Writer) Result {
	var res Result
	for _, c := range sf.Campaigns {
		in := model.CreateCampaignInput{Name: c.Name, Description: c.Description}
		if c.CoverImage != "" {
			cover := c.CoverImage
			in.CoverImagePath = &cover
		}

		created, err := svc.Create(ctx, in)
		switch {
		case appErrors.IsAlreadyExists(err):
			res.Skipped++
			fmt.Fprintf(out, "Skipped: %s (already exists)\n", c.Name)
		case err != nil:
			res.Failed++
			fmt.Fprintf(out, "Failed: %s: %v\n", c.Name, err)
		default:
			res.Created++
			fmt.Fprintf(out, "Seeded: %s (%s)\n", created.Name, created.ID)
		}
	}
	return res
}
