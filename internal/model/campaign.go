// internal/model/campaign.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// Campaign is the persisted campaign row. ID, CreatedAt and UpdatedAt are owned by the storage layer.
type Campaign struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name           string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description    *string        `json:"description,omitempty"`
	CoverImagePath *string        `gorm:"size:1024" json:"coverImagePath,omitempty"`
	Settings       datatypes.JSON `json:"settings,omitempty"`
	LastPlayedAt   *time.Time     `gorm:"index" json:"lastPlayedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Campaign) TableName() string { return "campaigns" }

// CampaignStats is derived at read time from relation counts and never persisted.
type CampaignStats struct {
	NPCCount       int64 `json:"npcCount"`
	LocationCount  int64 `json:"locationCount"`
	QuestCount     int64 `json:"questCount"`
	EncounterCount int64 `json:"encounterCount"`
	ChronicleCount int64 `json:"chronicleCount"`
}

type CampaignWithStats struct {
	Campaign
	Stats CampaignStats `json:"stats"`
}

type CreateCampaignInput struct {
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	CoverImagePath *string `json:"coverImagePath,omitempty"`
}

// UpdateCampaignInput leaves nil fields untouched. An empty CoverImagePath clears the cover pointer.
type UpdateCampaignInput struct {
	ID             string     `json:"id"`
	Name           *string    `json:"name,omitempty"`
	Description    *string    `json:"description,omitempty"`
	CoverImagePath *string    `json:"coverImagePath,omitempty"`
	LastPlayedAt   *time.Time `json:"lastPlayedAt,omitempty"`
}
