package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/pavelanni/greeting/internal/model"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
	validatorErr  error
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("register default translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(uniqueQuizIDs, model.Content{})
	return v, trans, nil
}

func uniqueQuizIDs(sl validator.StructLevel) {
	c := sl.Current().Interface().(model.Content)
	seen := make(map[int]bool, len(c.Quiz))
	for i, item := range c.Quiz {
		if seen[item.ID] {
			sl.ReportError(item.ID, fmt.Sprintf("quiz[%d].id", i), "ID", "unique", "")
		}
		seen[item.ID] = true
	}
}

// ValidationError lists every invalid field of a content file.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid content: " + strings.Join(e.Fields, ", ")
}

// Validate checks content against the struct rules of model.Content.
func Validate(c model.Content) error {
	validatorOnce.Do(func() {
		validate, translator, validatorErr = newValidator()
	})
	if validatorErr != nil {
		return validatorErr
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		msg := fe.Translate(translator)
		if fe.Tag() == "unique" {
			msg = fe.Field() + " must be unique"
		}
		ve.Fields = append(ve.Fields, strings.TrimPrefix(fe.Namespace(), "Content.")+": "+msg)
	}
	return ve
}
