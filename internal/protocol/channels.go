package protocol

import (
	"reflect"

	"github.com/unclebandit/dmcodex/internal/model"
)

// Version is bumped on any incompatible change to a channel's input or output.
const Version = 1

const VersionHeader = "X-Codex-Protocol-Version"

type Name string

// Void is the input or output of channels that carry nothing.
type Void struct{}

type IDInput struct {
	ID string `json:"id"`
}

type SetCoverImageInput struct {
	ID         string `json:"id"`
	SourcePath string `json:"sourcePath"`
}

type SystemStatus struct {
	ProtocolVersion   int    `json:"protocolVersion"`
	Ready             bool   `json:"ready"`
	DatabaseConnected bool   `json:"databaseConnected"`
	Channels          []Name `json:"channels"`
}

// Channel binds a name to its input and output types.
type Channel[In, Out any] struct {
	Name Name
}

// Descriptor is the enumerable form of a channel.
type Descriptor struct {
	Name   Name   `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

func (c Channel[In, Out]) Descriptor() Descriptor {
	return Descriptor{
		Name:   c.Name,
		Input:  reflect.TypeOf((*In)(nil)).Elem().String(),
		Output: reflect.TypeOf((*Out)(nil)).Elem().String(),
	}
}

var (
	CampaignCreate           = Channel[model.CreateCampaignInput, model.Campaign]{Name: "campaign:create"}
	CampaignFindAll          = Channel[Void, []model.CampaignWithStats]{Name: "campaign:findAll"}
	CampaignFindByID         = Channel[IDInput, *model.CampaignWithStats]{Name: "campaign:findById"}
	CampaignUpdate           = Channel[model.UpdateCampaignInput, model.Campaign]{Name: "campaign:update"}
	CampaignDelete           = Channel[IDInput, Void]{Name: "campaign:delete"}
	CampaignUpdateLastPlayed = Channel[IDInput, model.Campaign]{Name: "campaign:updateLastPlayed"}
	CampaignSetCoverImage    = Channel[SetCoverImageInput, model.Campaign]{Name: "campaign:setCoverImage"}
	CampaignRemoveCoverImage = Channel[IDInput, model.Campaign]{Name: "campaign:removeCoverImage"}
	CampaignGetStatistics    = Channel[IDInput, *model.CampaignStats]{Name: "campaign:getStatistics"}
	SystemStatusChannel      = Channel[Void, SystemStatus]{Name: "system:status"}
)

// registry is closed: a channel exists only if it is listed here.
var registry = []Descriptor{
	CampaignCreate.Descriptor(),
	CampaignFindAll.Descriptor(),
	CampaignFindByID.Descriptor(),
	CampaignUpdate.Descriptor(),
	CampaignDelete.Descriptor(),
	CampaignUpdateLastPlayed.Descriptor(),
	CampaignSetCoverImage.Descriptor(),
	CampaignRemoveCoverImage.Descriptor(),
	CampaignGetStatistics.Descriptor(),
	SystemStatusChannel.Descriptor(),
}

// Channels returns a copy of the registry in declaration order.
func Channels() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

func Names() []Name {
	names := make([]Name, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

func Lookup(name Name) (Descriptor, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
