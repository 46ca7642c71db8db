package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// MaxRequestBody caps JSON request bodies. Analyzed texts are the largest
// legitimate payload.
const MaxRequestBody = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

var validate = newValidator()

// newValidator registers the domain enums as struct tags so request DTOs
// can be checked declaratively.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "language", func(fl validator.FieldLevel) bool {
		return domain.ValidateLanguageCode(fl.Field().String()) == nil
	})
	mustRegister(v, "pos", func(fl validator.FieldLevel) bool {
		return domain.PartOfSpeech(fl.Field().String()).IsValid()
	})
	mustRegister(v, "lexical_category", func(fl validator.FieldLevel) bool {
		return domain.LexicalCategory(fl.Field().String()).IsValid()
	})
	mustRegister(v, "cefr", func(fl validator.FieldLevel) bool {
		return domain.CEFRLevel(fl.Field().String()).IsValid()
	})
	mustRegister(v, "learning_status", func(fl validator.FieldLevel) bool {
		return domain.LearningStatus(fl.Field().String()).IsValid()
	})
	mustRegister(v, "translation_type", func(fl validator.FieldLevel) bool {
		return domain.TranslationType(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// ValidateRequest validates v with its own Validate method when it has one,
// otherwise with struct tags.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
