package handlers

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/mamadbah2/washify/internal/auth"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func requestValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// bcrypt limits passwords in bytes, max= counts runes.
		_ = validate.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= auth.MaxPasswordBytes
		})

		eng := en.New()
		translator, _ = ut.New(eng, eng).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
		_ = validate.RegisterTranslation("passwordbytes", translator, func(t ut.Translator) error {
			return t.Add("passwordbytes", "{0} must be at most 72 bytes long", true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("passwordbytes", fe.Field())
			return msg
		})
	})
	return validate, translator
}

func validationMessage(err error) string {
	_, trans := requestValidator()
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Translate(trans))
	}
	return strings.Join(messages, ", ")
}

// bindJSON decodes the request body into dst and validates it. It writes a
// 400 for malformed JSON or a 422 for failed validation and returns false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	v, _ := requestValidator()
	if err := v.Struct(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": validationMessage(err)})
		return false
	}
	return true
}
