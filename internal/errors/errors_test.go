package appErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"validation", NewValidation("name", "Campaign name is required"), CodeValidation},
		{"exists", NewCampaignNameExists("Curse of Strahd"), CodeAlreadyExists},
		{"not found", NewCampaignNotFound("abc"), CodeNotFound},
		{"database", NewDatabase("create campaign", cause), CodeDatabase},
		{"file system", NewFileSystem("create campaign folders", "/tmp/x", cause), CodeFileSystem},
		{"wrapped", fmt.Errorf("outer: %w", NewCampaignNotFound("abc")), CodeNotFound},
		{"untagged", errors.New("something about a missing file"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestOuterTagWins(t *testing.T) {
	// a file system failure whose cause mentions "not found" keeps its own tag
	err := NewFileSystem("copy cover image", "/a", NewCampaignNotFound("x"))
	assert.Equal(t, CodeFileSystem, CodeOf(err))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, `Campaign with name "Curse of Strahd" already exists`, NewCampaignNameExists("Curse of Strahd").Error())
	assert.Equal(t, `Campaign with ID "abc" not found`, NewCampaignNotFound("abc").Error())
	assert.Contains(t, NewDatabase("delete campaign", errors.New("locked")).Error(), "locked")
}

func TestDetailsOf(t *testing.T) {
	assert.Equal(t, map[string]string{"field": "name"}, DetailsOf(NewValidation("name", "bad")))
	assert.Equal(t, map[string]string{"path": "/x"}, DetailsOf(NewFileSystem("op", "/x", errors.New("e"))))
	assert.Nil(t, DetailsOf(NewCampaignNotFound("abc")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, NewDatabase("op", cause), cause)
	assert.ErrorIs(t, NewFileSystem("op", "/p", cause), cause)
}
