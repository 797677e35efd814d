package service

import (
	"authgate/internal/common"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	maxEmailLength   = 254
	maxPasswordBytes = 72
)

func (r SignupRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("Username is required"),
			validation.RuneLength(3, 0).Error("Username must be at least 3 characters"),
			validation.RuneLength(0, 30).Error("Username must be at most 30 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			validation.RuneLength(0, maxEmailLength).Error("Email must be a valid email"),
			is.Email.Error("Email must be a valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(6, 0).Error("Password must be at least 6 characters"),
			// Length counts bytes; bcrypt refuses anything longer.
			validation.Length(0, maxPasswordBytes).Error("Password must be at most 72 bytes"),
		),
	)
	return toValidationError(err, "username", "email", "password")
}

func (r LoginRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("Username is required")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
	return toValidationError(err, "username", "password")
}

// toValidationError flattens ozzo's per-field errors into one
// common.ValidationError, ordered by fields.
func toValidationError(err error, fields ...string) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return err
	}
	v := &common.ValidationError{}
	for _, f := range fields {
		if fe, ok := errs[f]; ok && fe != nil {
			v.Messages = append(v.Messages, fe.Error())
		}
	}
	return v
}
