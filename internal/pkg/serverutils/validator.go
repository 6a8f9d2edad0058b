package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

var validate = validator.New()

// ValidateRequest checks a DTO's validate tags and maps failures onto the
// request-validation error so the error middleware returns 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return cragerr.Validation(err.Error())
		}

		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return cragerr.Validation(strings.Join(fields, "; "))
	}
	return nil
}
