package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Short identifiers are nanoid-style: a single role prefix letter followed
// by eight lowercase alphanumerics.
var (
	transportIDRegex = regexp.MustCompile(`^t[0-9a-z]{8}$`)
	shortIDRegex     = regexp.MustCompile(`^[a-z][0-9a-z]{8,12}$`)
	senderTypeRegex  = regexp.MustCompile(`^(supplier|manufacturer|distributor)$`)
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		registerCustom(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
		}
	})

	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("transport_id", validateTransportID)
	_ = v.RegisterValidation("short_id", validateShortID)
	_ = v.RegisterValidation("sender_type", validateSenderType)

	// Use JSON tag names for error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

func validateTransportID(fl validator.FieldLevel) bool {
	return transportIDRegex.MatchString(fl.Field().String())
}

func validateShortID(fl validator.FieldLevel) bool {
	return shortIDRegex.MatchString(fl.Field().String())
}

func validateSenderType(fl validator.FieldLevel) bool {
	return senderTypeRegex.MatchString(fl.Field().String())
}

// IsValidTransportID reports whether id matches the transport request
// short-identifier format.
func IsValidTransportID(id string) bool {
	return transportIDRegex.MatchString(id)
}
