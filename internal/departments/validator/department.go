package validator

import (
	"medassist/pkg/logger"
	"medassist/pkg/model"
	"medassist/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// DepartmentValidator checks department documents before they are seeded.
type DepartmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDepartmentValidator(log *logger.Logger) *DepartmentValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize department validator", "error", err)
	}

	return &DepartmentValidator{
		validate: v,
		logger:   log,
	}
}

func (v *DepartmentValidator) Validate(department *model.Department) error {
	return validation.Translate(v.validate.Struct(department))
}
