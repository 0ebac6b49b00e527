package ez

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var setupOnce sync.Once

// setupValidator 给 gin 的校验器注册 objectid 规则，并让字段名使用 json/form 名
func setupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(key), ",")
				if name == "-" {
					continue
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// bindError 绑定/校验错误转成 400
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return Invalid(fieldErrors(ve))
	}
	var sve binding.SliceValidationError
	if errors.As(err, &sve) {
		var out []string
		for _, e := range sve {
			if errors.As(e, &ve) {
				out = append(out, fieldErrors(ve)...)
			}
		}
		if len(out) > 0 {
			return Invalid(out)
		}
	}
	return &AErr{Code: 400, Msg: "Invalid request body", Errors: []string{err.Error()}}
}

func fieldErrors(ve validator.ValidationErrors) []string {
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "min":
		if fe.Param() == "1" {
			return f + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "email":
		return f + " must be a valid email"
	case "url", "uri":
		return f + " must be a valid uri"
	case "objectid":
		return f + " must be a valid ObjectId"
	}
	return f + " is invalid"
}
