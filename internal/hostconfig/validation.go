package hostconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for correctness. It runs the struct tag
// rules first and then the checks that span several fields. The JHipster
// version is not validated here; CheckVersion reports it as a warning.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateTags(cfg)...)
	errs = append(errs, validatePackage(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateTags(cfg *Config) []ValidationError {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: GeneratorKey, Message: err.Error(), Wrapped: ErrInvalidConfig}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve := ValidationError{
			Field:   fe.Field(),
			Message: tagMessage(fe),
			Wrapped: ErrInvalidConfig,
		}
		if fe.Tag() != "required" {
			ve.Value = fe.Value()
		}
		errs = append(errs, ve)
	}
	return errs
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is empty"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

func validatePackage(cfg *Config) []ValidationError {
	if cfg.PackageName == "" {
		return nil
	}
	if !javaPackage.MatchString(cfg.PackageName) {
		return []ValidationError{{
			Field:   "packageName",
			Message: "must be a lower-case Java package name",
			Value:   cfg.PackageName,
			Wrapped: ErrInvalidPackageName,
		}}
	}
	want := strings.ReplaceAll(cfg.PackageName, ".", "/")
	if cfg.PackageFolder != "" && cfg.PackageFolder != want {
		return []ValidationError{{
			Field:   "packageFolder",
			Message: fmt.Sprintf("does not match packageName (want %s)", want),
			Value:   cfg.PackageFolder,
			Wrapped: ErrInvalidConfig,
		}}
	}
	return nil
}
