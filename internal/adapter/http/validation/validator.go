package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	Validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]

			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return field.Name
	})

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	register := func(tag, text string, withParam bool) {
		Validator.RegisterTranslation(tag, Translator, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			if withParam {
				t, _ := ut.T(tag, fe.Field(), fe.Param())
				return t
			}

			t, _ := ut.T(tag, fe.Field())
			return t
		})
	}

	register("required", "{0} should not be empty", false)
	register("min", "{0} must be at least {1}", true)
	register("max", "{0} must be at most {1} characters long", true)
	register("oneof", "{0} must be one of the following values: {1}", true)
}

type validatorAdapter struct{}

func New() port.Validator {
	return validatorAdapter{}
}

func (validatorAdapter) ValidateStruct(s interface{}) error {
	return ValidateStruct(s)
}

func (validatorAdapter) FormatValidationErrors(err error) []response.ValidationError {
	return FormatValidationErrors(err)
}

func ValidateStruct(s interface{}) error {
	return Validator.Struct(s)
}

func FormatValidationErrors(err error) []response.ValidationError {
	validationErrs := []response.ValidationError{}

	var fieldErrors validator.ValidationErrors

	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			validationErrs = append(validationErrs, response.ValidationError{
				Field:   fieldError.Field(),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return validationErrs
}
