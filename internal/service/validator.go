package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/pkg/schedulerapi"
	"github.com/go-playground/validator/v10"
)

const (
	NotBlankTag = "notblank"
)

var rules = map[string]validator.Func{
	NotBlankTag: ValidateNotBlank,
}

var fieldErrors = map[string]error{
	"ToHandle":     ErrEmptyRecipient,
	"Body":         ErrEmptyBody,
	"ScheduledFor": ErrInvalidScheduledFor,
}

func ValidateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type CommandValidator interface {
	// ValidateCreate checks cmd locally and returns the wire request for it.
	ValidateCreate(cmd CreateMessageCommand) (schedulerapi.CreateMessageRequest, error)
}

type commandValidator struct {
	validate *validator.Validate
}

func NewCommandValidator(validate *validator.Validate) (CommandValidator, error) {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, err
		}
	}

	return &commandValidator{validate: validate}, nil
}

func (v *commandValidator) ValidateCreate(cmd CreateMessageCommand) (schedulerapi.CreateMessageRequest, error) {
	var causes []error

	if err := v.validate.Struct(cmd); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return schedulerapi.CreateMessageRequest{}, NewServiceError(ErrCodeValidationFailed, err)
		}
		for _, fieldErr := range validationErrs {
			if cause, ok := fieldErrors[fieldErr.Field()]; ok {
				causes = append(causes, cause)
			}
		}
	}

	var scheduledFor time.Time
	if !errors.Is(errors.Join(causes...), ErrInvalidScheduledFor) {
		at, err := model.ParseInstant(cmd.ScheduledFor, cmd.Location)
		if err != nil {
			causes = append(causes, ErrInvalidScheduledFor)
		}
		scheduledFor = at
	}

	if len(causes) > 0 {
		return schedulerapi.CreateMessageRequest{}, NewServiceError(ErrCodeValidationFailed, errors.Join(causes...))
	}

	return schedulerapi.CreateMessageRequest{
		ToHandle:     strings.TrimSpace(cmd.ToHandle),
		Body:         cmd.Body,
		ScheduledFor: model.FormatInstant(scheduledFor),
	}, nil
}
