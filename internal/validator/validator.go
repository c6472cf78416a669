// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/pagination"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validateNotBlank)
		_ = v.RegisterValidation("record_sort", validateRecordSort)
	}
}

// validateNotBlank rejects strings that are empty after trimming. Optional
// patch fields pair it with omitempty.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateRecordSort(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case pagination.SortDateAsc, pagination.SortDateDesc:
		return true
	}
	return false
}
