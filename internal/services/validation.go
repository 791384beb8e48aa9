package services

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"trailerstore/internal/apperror"
	"trailerstore/internal/models"

	"github.com/go-playground/validator/v10"
)

var imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|webp|gif)$`)

// NewValidator returns a validator that reports JSON field names and knows the catalog tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("trailer_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("image_url", func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs v over s and converts failures into a validation error
// listing every offending field.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Internal("Validation failed", err)
	}

	fields := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperror.FieldError{
			Field:   fieldPath(e),
			Message: fieldMessage(e),
			Value:   fieldValue(e),
		})
	}
	return apperror.Validation(fields...)
}

// fieldPath drops the struct name from the namespace, e.g. "images[0]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(e validator.FieldError) string {
	label := humanize(e.Field())
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, e.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s, allowed values: %s", e.Field(), e.Param())
	case "trailer_category":
		return "Invalid category"
	case "image_url":
		return "Each image must be a valid image URL"
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", label, e.Tag())
	}
}

func fieldValue(e validator.FieldError) interface{} {
	v := e.Value()
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	if rv.Kind() == reflect.String && rv.Len() == 0 {
		return nil
	}
	return v
}

// humanize turns "shortDescription" into "Short description".
func humanize(name string) string {
	if i := strings.LastIndex(name, "["); i > 0 {
		name = name[:i]
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
