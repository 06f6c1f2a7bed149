package devapi

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/Behyna/sms-scheduler/internal/constants"
	"github.com/Behyna/sms-scheduler/internal/model"
	"github.com/Behyna/sms-scheduler/internal/query"
	"github.com/Behyna/sms-scheduler/internal/stats"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgFieldRequired  = "This field is required."
	msgFieldChoice    = "Not a valid choice."
	msgDatetimeFormat = "Datetime has wrong format. Use RFC 3339."
	msgFieldBlank     = "This field may not be blank."
	healthStatusOK    = "ok"
)

var errInvalidBody = errors.New(constants.ErrCodeInvalidRequestBody)

type Handler struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(store Store, validate *validator.Validate, logger *zap.Logger) *Handler {
	validate.RegisterTagNameFunc(jsonFieldName)
	return &Handler{store: store, validate: validate, logger: logger}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: healthStatusOK})
}

func (h *Handler) ListMessages(c *fiber.Ctx) error {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return errors.Join(query.ErrInvalidFilter, err)
	}

	filter, err := query.ParseValues(values)
	if err != nil {
		h.logger.Warn("Rejected list filter",
			zap.String("query", values.Encode()),
			zap.Error(err))
		return err
	}

	return c.JSON(h.store.List(filter))
}

func (h *Handler) GetMessage(c *fiber.Ctx) error {
	msg, err := h.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(msg)
}

func (h *Handler) CreateMessage(c *fiber.Ctx) error {
	var request CreateMessageRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse body",
			zap.Error(err),
			zap.String("body", string(c.Body())))
		return errInvalidBody
	}

	if fields := h.fieldErrors(request); len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fields)
	}

	fields := map[string][]string{}
	if strings.TrimSpace(request.ToHandle) == "" {
		fields["to_handle"] = []string{msgFieldBlank}
	}
	if strings.TrimSpace(request.Body) == "" {
		fields["body"] = []string{msgFieldBlank}
	}
	scheduledFor, err := time.Parse(time.RFC3339Nano, request.ScheduledFor)
	if err != nil {
		fields["scheduled_for"] = []string{msgDatetimeFormat}
	}
	if len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fields)
	}

	msg := h.store.Create(request.ToHandle, request.Body, scheduledFor)

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *Handler) CancelMessage(c *fiber.Ctx) error {
	id := c.Params("id")

	msg, err := h.store.Cancel(id)
	if err != nil {
		h.logger.Warn("Cancel refused",
			zap.String("messageID", id),
			zap.Error(err))
		return err
	}

	h.logger.Info("Message canceled", zap.String("messageID", id))

	return c.JSON(msg)
}

func (h *Handler) StatusStats(c *fiber.Ctx) error {
	entries := make([]stats.Entry, 0, len(model.AllStatuses()))
	for _, entry := range h.store.Stats().Entries() {
		if entry.Count > 0 {
			entries = append(entries, entry)
		}
	}
	return c.JSON(entries)
}

// Claim lets a dispatch worker take the next due message. 204 means there
// is nothing to do.
func (h *Handler) Claim(c *fiber.Ctx) error {
	var request ClaimRequest
	if err := c.BodyParser(&request); err != nil {
		return errInvalidBody
	}
	if fields := h.fieldErrors(request); len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fields)
	}

	dueBy := time.Now()
	if request.DueBy != "" {
		parsed, err := time.Parse(time.RFC3339Nano, request.DueBy)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(map[string][]string{"due_by": {msgDatetimeFormat}})
		}
		dueBy = parsed
	}

	msg, err := h.store.Claim(request.GatewayID, dueBy)
	if errors.Is(err, ErrNothingToClaim) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return err
	}

	return c.JSON(msg)
}

func (h *Handler) Report(c *fiber.Ctx) error {
	var request ReportRequest
	if err := c.BodyParser(&request); err != nil {
		return errInvalidBody
	}
	if fields := h.fieldErrors(request); len(fields) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fields)
	}

	reason := ""
	if request.Error != nil {
		reason = *request.Error
	}

	msg, err := h.store.Report(request.MessageID, model.MessageStatus(request.Status), reason, request.Detail)
	if err != nil {
		h.logger.Warn("Report refused",
			zap.String("messageID", request.MessageID),
			zap.String("status", request.Status),
			zap.Error(err))
		return err
	}

	return c.JSON(msg)
}

func (h *Handler) fieldErrors(data any) map[string][]string {
	err := h.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}

	fields := make(map[string][]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		msg := msgFieldRequired
		if fieldErr.Tag() == "oneof" {
			msg = msgFieldChoice
		}
		fields[fieldErr.Field()] = append(fields[fieldErr.Field()], msg)
	}
	return fields
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
