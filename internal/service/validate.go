package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitpay/internal/wallet"
)

var groupNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]{1,50}$`)

// ValidAddress validates a wallet address, including its checksum.
var ValidAddress validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return wallet.Validate(s) == nil
	}
	return false
}

// ValidTxHash validates a transaction hash.
var ValidTxHash validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return wallet.ValidateTxHash(s) == nil
	}
	return false
}

// ValidGroupName allows 1 to 50 letters, digits, spaces, dashes and underscores.
var ValidGroupName validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != "" && groupNamePattern.MatchString(s)
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"address":   ValidAddress,
		"txhash":    ValidTxHash,
		"groupname": ValidGroupName,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// validateRequest checks the struct tags of a request message. The error
// names the first offending field and wraps ErrInvalidArgument.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Errorf("%w: %s %s", ErrInvalidArgument, ve[0].Field(), describe(ve[0]))
	}
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "address":
		return "must be a 0x-prefixed 40 hex wallet address with a valid checksum"
	case "txhash":
		return "must be a 0x-prefixed 64 hex transaction hash"
	case "groupname":
		return "must be 1 to 50 letters, digits, spaces, dashes or underscores"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
