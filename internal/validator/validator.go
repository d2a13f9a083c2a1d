package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/mockexam-backend/internal/model"
)

// trans is the English translator for request binding errors.
var trans = newTranslator()

// standalone validates structs outside of request binding (e.g. catalog files)
// and has its own translator, since a translator holds one text per tag.
var (
	standalone      = govalidator.New()
	standaloneTrans = newTranslator()
)

var setupOnce sync.Once

func init() {
	_ = configure(standalone, standaloneTrans)
}

// Setup registers the custom tags and English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
			_ = configure(v, trans)
		}
	})
}

func newTranslator() ut.Translator {
	enLocale := en.New()
	t, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	return t
}

func configure(v *govalidator.Validate, trans ut.Translator) error {
	// Use JSON (or yaml) tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("yaml")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("section", func(fl govalidator.FieldLevel) bool {
		return model.Section(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return err
	}

	return v.RegisterTranslation("section", trans,
		func(ut ut.Translator) error {
			return ut.Add("section", "{0} must be one of Physics, Chemistry, Mathematics", true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T("section", fe.Field())
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	return translate(err, trans)
}

func translate(err error, trans ut.Translator) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates v with the `validate` tags and returns translated field
// errors, or nil when v is valid.
func Struct(v interface{}) map[string]string {
	if err := standalone.Struct(v); err != nil {
		return translate(err, standaloneTrans)
	}
	return nil
}

// fieldPath drops the root struct name, e.g. "responses[0].question_id".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
