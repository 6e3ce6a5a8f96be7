package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	urlSafeTag   = "urlsafe"
	urlSafeText  = "{0} may only contain letters, digits, '-' and '_'"
	urlSafeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	codeTag  = "code"
	codeText = "{0} must be a valid code or -1"

	nicknameTag   = "nickname"
	nicknameText  = "{0} must be a valid nickname"
	nicknameRegex = regexp.MustCompile(`^@?[A-Za-z0-9_.-]{1,16}$`)
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use request parameter names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"param", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// register custom validators
	_ = validate.RegisterValidation(urlSafeTag, urlSafeValidation)
	RegisterCustomTranslation(validate, translator, urlSafeTag, urlSafeText)

	_ = validate.RegisterValidation(codeTag, codeValidation)
	RegisterCustomTranslation(validate, translator, codeTag, codeText)

	_ = validate.RegisterValidation(nicknameTag, nicknameValidation)
	RegisterCustomTranslation(validate, translator, nicknameTag, nicknameText)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// urlSafeValidation only allows the URL-safe base64 alphabet.
func urlSafeValidation(fl validator.FieldLevel) bool {
	return urlSafeRegex.MatchString(fl.Field().String())
}

// codeValidation accepts database codes: positive numbers, or -1 for "none".
func codeValidation(fl validator.FieldLevel) bool {
	c := fl.Field().Int()
	return c == -1 || c > 0
}

func nicknameValidation(fl validator.FieldLevel) bool {
	return nicknameRegex.MatchString(fl.Field().String())
}

// TranslateValidationErrors turns the errors reported by a validator into a
// ValidationError with one translated message per field. Other errors are
// returned unchanged.
func TranslateValidationErrors(err error, translator ut.Translator) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return NewValidationError(errors.New("invalid parameters"), flds...)
}
