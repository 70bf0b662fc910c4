package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator 封装 validator/v10，把校验错误转换为接口错误明细
type Validator struct {
	v *validator.Validate
}

// NewValidator 创建校验器，错误中的字段名使用 json 标签
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// ValidateQuery 校验查询参数结构体，返回按字段排列的错误明细
func (v *Validator) ValidateQuery(s interface{}) ([]ErrorDetail, error) {
	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}

	details := make([]ErrorDetail, 0, len(validationErrs))
	for _, e := range validationErrs {
		details = append(details, QueryError(e.Field(), friendlyMessage(e)))
	}
	return details, nil
}

// QueryError 构造查询参数错误
func QueryError(field, msg string) ErrorDetail {
	return ErrorDetail{Loc: []string{"query", field}, Msg: msg}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return "Not a valid choice. Must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min":
		return fmt.Sprintf("Number must be at least %s.", e.Param())
	case "max":
		return fmt.Sprintf("Number must be at most %s.", e.Param())
	case "required":
		return "This field is required."
	default:
		return "Invalid value."
	}
}
