package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/runnerr0/eventspot/internal/filters"
)

var (
	vOnce sync.Once
	vInst *validator.Validate
)

func validate() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// region must be one the catalog can search
		_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			_, ok := filters.RegionByCode(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("sort", func(fl validator.FieldLevel) bool {
			_, ok := filters.ParseSort(fl.Field().String())
			return ok
		})

		vInst = v
	})
	return vInst
}

// Validate checks field ranges and enumerations. The api key is not
// required here so commands that never call the API work without one.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
