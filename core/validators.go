package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	monthTag   = "month"
	monthText  = "{0} must be a month between 1 and 12"
	monthRegex = regexp.MustCompile(`^(0?[1-9]|1[0-2])$`)

	yearTag   = "year"
	yearText  = "{0} must be a four digit year"
	yearRegex = regexp.MustCompile(`^\d{4}$`)
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(monthTag, func(fl validator.FieldLevel) bool {
		return monthRegex.MatchString(fl.Field().String())
	})
	RegisterCustomTranslation(monthTag, monthText)

	_ = Validate.RegisterValidation(yearTag, func(fl validator.FieldLevel) bool {
		return yearRegex.MatchString(fl.Field().String())
	})
	RegisterCustomTranslation(yearTag, yearText)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct validates `s` and converts failures to a *ValidationError with translated field messages.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	if fErrs, ok := err.(validator.ValidationErrors); ok {
		return translateFieldErrors(fErrs)
	}
	return err
}

func translateFieldErrors(fErrs validator.ValidationErrors) *ValidationError {
	flds := make([]FieldError, 0, len(fErrs))
	for _, fe := range fErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return &ValidationError{Err: fErrs, Fields: flds}
}
