package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
)

func TestRegistry_ClosedAndUnique(t *testing.T) {
	want := []Name{
		"campaign:create",
		"campaign:findAll",
		"campaign:findById",
		"campaign:update",
		"campaign:delete",
		"campaign:updateLastPlayed",
		"campaign:setCoverImage",
		"campaign:removeCoverImage",
		"campaign:getStatistics",
		"system:status",
	}
	assert.Equal(t, want, Names())

	seen := map[Name]bool{}
	for _, d := range Channels() {
		assert.False(t, seen[d.Name], "duplicate channel %s", d.Name)
		seen[d.Name] = true
		assert.NotEmpty(t, d.Input)
		assert.NotEmpty(t, d.Output)
	}

	d, ok := Lookup("campaign:findById")
	require.True(t, ok)
	assert.Equal(t, "protocol.IDInput", d.Input)
	assert.Equal(t, "*model.CampaignWithStats", d.Output)

	_, ok = Lookup("campaign:drop")
	assert.False(t, ok)
}

func TestChannels_ReturnsCopy(t *testing.T) {
	list := Channels()
	list[0].Name = "mutated"
	assert.Equal(t, Name("campaign:create"), Channels()[0].Name)
}

func TestEnvelope_SuccessAndDecode(t *testing.T) {
	env, err := Success(model.Campaign{ID: "abc", Name: "Curse of Strahd"})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"abc","name":"Curse of Strahd","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}}`, string(raw))

	got, info, err := Decode[model.Campaign](env)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Equal(t, "Curse of Strahd", got.Name)
}

func TestEnvelope_VoidAndNull(t *testing.T) {
	env, err := Success(Void{})
	require.NoError(t, err)
	raw, _ := json.Marshal(env)
	assert.JSONEq(t, `{"success":true}`, string(raw))

	var missing *model.CampaignWithStats
	env, err = Success(missing)
	require.NoError(t, err)
	raw, _ = json.Marshal(env)
	assert.JSONEq(t, `{"success":true,"data":null}`, string(raw))

	got, info, err := Decode[*model.CampaignWithStats](env)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Nil(t, got)
}

func TestEnvelope_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"validation", appErrors.NewValidation("name", "Campaign name is required"), appErrors.CodeValidation},
		{"exists", appErrors.NewCampaignNameExists("X"), appErrors.CodeAlreadyExists},
		{"not found", appErrors.NewCampaignNotFound("abc"), appErrors.CodeNotFound},
		{"database", appErrors.NewDatabase("list campaigns", errors.New("boom")), appErrors.CodeDatabase},
		{"file system", appErrors.NewFileSystem("Failed to copy cover image", "/x", errors.New("boom")), appErrors.CodeFileSystem},
		// text that used to be misclassified stays unknown
		{"untagged", errors.New("record not found in file"), appErrors.CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Failure(tt.err)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.err.Error(), env.Error.Message)

			_, info, err := Decode[model.Campaign](env)
			require.NoError(t, err)
			assert.Equal(t, env.Error, info)
		})
	}
}

func TestDecode_FailureWithoutInfo(t *testing.T) {
	_, info, err := Decode[Void](Envelope{Success: false})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, appErrors.CodeUnknown, info.Code)
}
