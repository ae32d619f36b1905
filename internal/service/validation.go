package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Freeeeeet/course_app/internal/model"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names instead of Go field names, path parameters by their route name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Tag.Get("param")
		}
		return name
	})

	registerCustom("clock", "{0} must be a time in HH:MM format", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.ClockTimeLayout, fl.Field().String())
		return err == nil
	})
	registerCustom("isodate", "{0} must be a date in YYYY-MM-DD format", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	})
	registerCustom("tz", "{0} must be a valid IANA timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})
	registerCustom("resourcetype", "{0} must be one of PDF, LINK, VIDEO, NOTES", func(fl validator.FieldLevel) bool {
		_, err := model.ParseResourceType(fl.Field().String())
		return err == nil
	})
	registerCustom("lessonstatus", "{0} must be one of SCHEDULED, COMPLETED, CANCELLED", func(fl validator.FieldLevel) bool {
		_, err := model.ParseLessonStatus(fl.Field().String())
		return err == nil
	})
}

func registerCustom(tag, text string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// validateInput runs struct validation and converts failures into a ValidationError.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	fields := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return &ValidationError{Err: "invalid input", Fields: fields}
}
