package model

import "time"

// Related entities exist here so the storage layer can count them and cascade deletes.
// Their own CRUD lives outside the campaign core.

type NPC struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CampaignID string    `gorm:"type:varchar(36);index;not null" json:"campaignId"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (NPC) TableName() string { return "npcs" }

type Location struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CampaignID string    `gorm:"type:varchar(36);index;not null" json:"campaignId"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Location) TableName() string { return "locations" }

type Quest struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CampaignID string    `gorm:"type:varchar(36);index;not null" json:"campaignId"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Quest) TableName() string { return "quests" }

type Encounter struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CampaignID string    `gorm:"type:varchar(36);index;not null" json:"campaignId"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Encounter) TableName() string { return "encounters" }

// Chronicle is a session log entry.
type Chronicle struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CampaignID string    `gorm:"type:varchar(36);index;not null" json:"campaignId"`
	Campaign   *Campaign `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Entry      string    `json:"entry"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Chronicle) TableName() string { return "chronicles" }

// RelatedModels lists every table that hangs off a campaign, in migration order.
func RelatedModels() []any {
	return []any{&NPC{}, &Location{}, &Quest{}, &Encounter{}, &Chronicle{}}
}
