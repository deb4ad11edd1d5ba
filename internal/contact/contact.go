// Package contact validates and records contact form submissions.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidForm = errors.New("invalid contact form")

type Form struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// Message is an accepted submission.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "contact_messages" }

// FieldErrors maps a json field name to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error { return ErrInvalidForm }

type Saver interface {
	SaveMessage(ctx context.Context, m Message) error
}

type Service struct {
	validate *validator.Validate
	store    Saver
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Saver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Validate trims the form and checks it. A failed check returns FieldErrors.
func (s *Service) Validate(f *Form) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)

	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = describe(fe)
	}
	return out
}

// Submit validates f and stores it. Delivery is only logged.
func (s *Service) Submit(ctx context.Context, f Form) (Message, error) {
	if err := s.Validate(&f); err != nil {
		return Message{}, err
	}
	m := Message{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Body:      f.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveMessage(ctx, m); err != nil {
		return Message{}, fmt.Errorf("save message: %w", err)
	}
	s.log.Info("contact message received",
		zap.String("id", m.ID),
		zap.String("from", m.Email),
		zap.Int("length", len(m.Body)),
	)
	return m, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
