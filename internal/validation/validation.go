package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// file extensions are stored lower-case with their leading dot
	_ = validate.RegisterValidation("fileext", func(fl validator.FieldLevel) bool {
		ext := fl.Field().String()
		return len(ext) > 1 && strings.HasPrefix(ext, ".") && ext == strings.ToLower(ext) && !strings.ContainsAny(ext, `/\ `)
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToMap maps each failing field to the tag it failed on.
// Errors that are not validation errors are returned under the "_" key.
func ErrorsToMap(validationErrs error) map[string]string {
	errsMap := make(map[string]string)
	var vErrs validator.ValidationErrors
	if !errors.As(validationErrs, &vErrs) {
		errsMap["_"] = validationErrs.Error()
		return errsMap
	}
	for _, fieldErr := range vErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}
	return errsMap
}

func ErrorsToJson(validationErrs error) (string, error) {
	errsJson, err := json.Marshal(ErrorsToMap(validationErrs))
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
