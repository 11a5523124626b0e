package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

// Setup configures the shared validator with English translations and
// json-tag field names. Call once at startup.
func Setup() error {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	t, ok := uni.GetTranslator("en")
	if !ok {
		return errors.New("en translator not found")
	}
	trans = t

	return entrans.RegisterDefaultTranslations(validate, trans)
}

// Bind decodes the JSON body into dst and validates it. On validation
// failure it returns a map of field name to human-readable message.
func Bind(c *gin.Context, dst any) (map[string]string, error) {
	if err := c.ShouldBindJSON(dst); err != nil {
		return nil, err
	}
	return Struct(dst)
}

// BindQuery decodes query parameters into dst and validates it.
func BindQuery(c *gin.Context, dst any) (map[string]string, error) {
	if err := c.ShouldBindQuery(dst); err != nil {
		return nil, err
	}
	return Struct(dst)
}

// Struct validates dst directly, returning translated field errors.
func Struct(dst any) (map[string]string, error) {
	err := validate.Struct(dst)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(trans)
	}
	return fields, nil
}
