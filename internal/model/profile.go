package model

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Profile is the input of a single prediction.
// City tier and occupation are free strings: values outside the known
// sets are encoded with the reference category rather than rejected.
type Profile struct {
	Income     float64 `json:"income" validate:"finite,gt=0"`
	Age        int     `json:"age" validate:"gt=0,lte=130"`
	Dependents int     `json:"dependents" validate:"gte=0"`
	CityTier   string  `json:"city_tier" validate:"required"`
	Occupation string  `json:"occupation" validate:"required"`
}

// Validate checks the numeric bounds and required fields of the profile.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}
