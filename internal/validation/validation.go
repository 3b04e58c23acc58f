// Package validation checks timeline documents and cohort input at the
// boundaries where they enter the system: the editor's commit, the store's
// read and write, and the practicum creation form.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/schologic/practicum/internal/domain"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag    = "notblank"
	eventTypeTag   = "event_type"
	logIntervalTag = "log_interval"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Report json names ("start_date") rather than Go field names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Dates validate as their wire form so "required" sees the zero value.
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		switch d := v.Interface().(type) {
		case domain.Day:
			return d.String()
		case domain.Moment:
			return d.String()
		}
		return nil
	}, domain.Day{}, domain.Moment{})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(eventTypeTag, eventTypeValidation)
	_ = Validate.RegisterValidation(logIntervalTag, logIntervalValidation)

	registerCustomValidationsTranslations(notBlankTag, eventTypeTag, logIntervalTag)
}

// registerCustomValidationsTranslations registers messages for the custom
// tags. The default translations are already registered, so the register
// func is a noop.
func registerCustomValidationsTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fmt.Sprintf("%s cannot be blank", fe.Field())
	case eventTypeTag:
		return fmt.Sprintf("%s must be one of %s", fe.Field(), joinEventTypes())
	case logIntervalTag:
		return fmt.Sprintf("%s must be one of daily, weekly, monthly", fe.Field())
	default:
		return ""
	}
}

func joinEventTypes() string {
	names := make([]string, len(domain.EventTypes))
	for i, et := range domain.EventTypes {
		names[i] = string(et)
	}
	return strings.Join(names, ", ")
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return strings.TrimSpace(fl.Field().String()) != ""
	}
	return false
}

func eventTypeValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return domain.EventType(fl.Field().String()).Valid()
	}
	return false
}

func logIntervalValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return domain.LogInterval(fl.Field().String()).Valid()
	}
	return false
}

// Struct runs tag validation on s and converts failures into a
// *domain.ValidationError. Other errors are returned unchanged.
func Struct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(Translator),
		})
	}
	return out
}

// fieldPath drops the struct name from a namespace:
// "TimelineConfig.events[2].title" becomes "events[2].title".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
