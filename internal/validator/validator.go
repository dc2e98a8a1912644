// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("contribution_type", validateContributionType)
		_ = v.RegisterValidation("entry_status", validateEntryStatus)
		_ = v.RegisterValidation("bucket", validateBucket)
		_ = v.RegisterValidation("location_level", validateLocationLevel)
	}
}

func validateContributionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "basic", "additional":
		return true
	}
	return false
}

func validateEntryStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "approved", "rejected":
		return true
	}
	return false
}

func validateBucket(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "lift", "alumni_association":
		return true
	}
	return false
}

func validateLocationLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "district", "county", "subcounty":
		return true
	}
	return false
}
