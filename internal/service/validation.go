package service

import (
	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/dmcodex/internal/errors"
	"github.com/unclebandit/dmcodex/internal/model"
)

const (
	msgInvalidID     = "Invalid campaign ID format"
	msgNameRequired  = "Campaign name is required"
	msgNameTooLong   = "Campaign name must be less than 100 characters"
	msgSourceMissing = "Source image path is required"
	msgCoverOutside  = "Cover image must be inside the campaign cover folder"
)

// every identifier check in this package goes through validateID
var validate = validator.New(validator.WithRequiredStructEnabled())

func validateID(id string) error {
	if err := validate.Var(id, "required,uuid"); err != nil {
		return appErrors.NewValidation("id", msgInvalidID)
	}
	return nil
}

// validateName counts runes, so a 100 character name in any script is accepted.
func validateName(name string) error {
	if err := validate.Var(name, "required"); err != nil {
		return appErrors.NewValidation("name", msgNameRequired)
	}
	if err := validate.Var(name, "max=100"); err != nil {
		return appErrors.NewValidation("name", msgNameTooLong)
	}
	return nil
}

func validateCreate(in model.CreateCampaignInput) error {
	return validateName(in.Name)
}

func validateUpdate(in model.UpdateCampaignInput) error {
	if err := validateID(in.ID); err != nil {
		return err
	}
	if in.Name != nil {
		return validateName(*in.Name)
	}
	return nil
}
