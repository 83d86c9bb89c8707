// Package contact validates and stores messages sent through the public
// contact form.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/services"
)

const (
	// SuccessBannerDuration is how long the thank-you banner stays up
	SuccessBannerDuration = 5 * time.Second
	// FallbackError is shown when a failed submission carries no message
	FallbackError = "Failed to send message. Please try emailing directly."
)

// Fields are the values typed into the form
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Fields) normalize() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	if f.Subject == "" {
		f.Subject = models.SubjectGeneralInquiry
	}
	return f
}

// Validate reports field errors keyed by json field name
func (f Fields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
		validation.Field(&f.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// Result is the form state after a submission
type Result struct {
	// Fields are cleared on success and kept otherwise
	Fields      Fields
	FieldErrors map[string]string
	// Error is the banner text for a failed insert
	Error        string
	Cause        error
	SuccessUntil time.Time
	Message      *models.ContactMessage
}

func (r Result) Succeeded() bool {
	return r.Message != nil
}

// ShowSuccess reports whether the success banner is still visible at now
func (r Result) ShowSuccess(now time.Time) bool {
	return r.Succeeded() && now.Before(r.SuccessUntil)
}

type Option func(*Form)

func WithNotifier(n services.Notifier) Option {
	return func(f *Form) { f.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

type Form struct {
	repo     *database.ContactMessageRepo
	notifier services.Notifier
	now      func() time.Time
	logger   zerolog.Logger
}

func NewForm(client backend.Client, opts ...Option) *Form {
	f := &Form{
		repo:     database.NewContactMessageRepo(client),
		notifier: services.MultiNotifier(nil),
		now:      time.Now,
		logger:   log.With().Str("component", "contactForm").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit validates fields and stores them as a contact message. Invalid
// input never reaches the backend.
func (f *Form) Submit(ctx context.Context, fields Fields) Result {
	fields = fields.normalize()

	if err := fields.Validate(); err != nil {
		return Result{Fields: fields, FieldErrors: fieldErrors(err)}
	}

	now := f.now()
	msg := models.ContactMessage{
		Name:      fields.Name,
		Email:     fields.Email,
		Subject:   fields.Subject,
		Message:   fields.Message,
		CreatedAt: now,
	}
	if err := f.repo.Add(ctx, &msg); err != nil {
		f.logger.Error().Err(err).Str("email", msg.Email).Msg("Failed to store contact message")
		text := err.Error()
		if strings.TrimSpace(text) == "" {
			text = FallbackError
		}
		return Result{Fields: fields, Error: text, Cause: err}
	}

	if err := f.notifier.NotifyContact(ctx, msg); err != nil {
		f.logger.Warn().Err(err).Str("messageID", msg.ID.String()).Msg("Contact notification failed")
	}

	return Result{SuccessUntil: now.Add(SuccessBannerDuration), Message: &msg}
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}
	out["form"] = err.Error()
	return out
}
