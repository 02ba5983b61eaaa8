// Package contact is the visitor query form. It is mounted on its own page and embedded
// in the contact section of the home page.
package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/elegant/content"
	"github.com/ryanhamamura/elegant/h"
	"github.com/ryanhamamura/elegant/internal/pages/shared"
	"github.com/ryanhamamura/elegant/live"
)

// SubjectQueryCreated is published after every successful submission.
const SubjectQueryCreated = "queries.created"

const (
	StatusSubmitting = "Submitting..."
	StatusSuccess    = "Submitted — thank you!"
	StatusError      = "Error submitting. Is the backend running?"

	sessionNameKey = "contact_name"
	submitTimeout  = 15 * time.Second
)

// QueryCreated is the event published on SubjectQueryCreated.
type QueryCreated struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// Submitter delivers a query to the backend.
type Submitter interface {
	PostQuery(ctx context.Context, in content.QueryInput) error
}

// Recorder counts submission results. It may be nil.
type Recorder interface {
	QuerySubmitted(result string)
}

type Deps struct {
	Submitter Submitter
	Metrics   Recorder
	// SubmitRate and SubmitBurst size the submit action's own bucket; zero values
	// take the live action defaults.
	SubmitRate  float64
	SubmitBurst int
}

// Field is a form value edited in the browser. *live.Signal implements it.
type Field interface {
	String() string
	SetValue(v any)
}

// Form holds the state of one contact form: idle, submitting, then success or error.
type Form struct {
	submitter Submitter
	metrics   Recorder
	logger    zerolog.Logger

	Name, Email, Message Field

	// OnChange runs after every status change; the view pushes a re-render.
	OnChange func()
	// OnSuccess runs after a successful submission with the submitted values.
	OnSuccess func(in content.QueryInput)

	mu         sync.Mutex
	status     string
	fieldErrs  []string
	submitting bool
}

// NewForm creates an idle form over the given fields.
func NewForm(s Submitter, m Recorder, logger zerolog.Logger, name, email, message Field) *Form {
	return &Form{
		submitter: s,
		metrics:   m,
		logger:    logger,
		Name:      name,
		Email:     email,
		Message:   message,
	}
}

// Submit posts the current field values exactly as entered. On success the fields are
// cleared; on failure they are kept for correction. A submission started while
// another is in flight is ignored.
func (f *Form) Submit(ctx context.Context) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return
	}
	f.submitting = true
	f.status = StatusSubmitting
	f.fieldErrs = nil
	f.mu.Unlock()
	f.changed()

	in := content.QueryInput{
		Name:    f.Name.String(),
		Email:   f.Email.String(),
		Message: f.Message.String(),
	}
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	err := f.submitter.PostQuery(ctx, in)
	cancel()

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.status = StatusError
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			f.fieldErrs = verr.Messages()
		}
	} else {
		f.status = StatusSuccess
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Error().Err(err).Msg("submit query")
		f.record("error")
		f.changed()
		return
	}

	f.logger.Info().Str("email", in.Email).Msg("query submitted")
	f.record("success")
	f.Name.SetValue("")
	f.Email.SetValue("")
	f.Message.SetValue("")
	if f.OnSuccess != nil {
		f.OnSuccess(in)
	}
	f.changed()
}

func (f *Form) changed() {
	if f.OnChange != nil {
		f.OnChange()
	}
}

func (f *Form) record(result string) {
	if f.metrics != nil {
		f.metrics.QuerySubmitted(result)
	}
}

// Status returns the status line; empty before the first submission.
func (f *Form) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// FieldErrors returns the per-field messages of the last rejected submission.
func (f *Form) FieldErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrs
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// New builds the form on c, backed by signals bound to its inputs, and sets c's view.
func New(c *live.Context, deps Deps) *Form {
	name, email, message := c.Signal(""), c.Signal(""), c.Signal("")
	f := NewForm(deps.Submitter, deps.Metrics, c.Logger().With().Str("component", "contact").Logger(), name, email, message)
	f.OnChange = c.Sync
	f.OnSuccess = func(in content.QueryInput) {
		if in.Name != "" {
			c.Session().Set(sessionNameKey, in.Name)
		}
		err := live.Publish(c, SubjectQueryCreated, QueryCreated{Name: in.Name, At: time.Now().UTC()})
		if err != nil && !errors.Is(err, live.ErrNoPubSub) {
			f.logger.Warn().Err(err).Msg("publish query created")
		}
	}

	var greeting string
	if returning := c.Session().GetString(sessionNameKey); returning != "" {
		greeting = "Welcome back, " + returning + "."
	}

	submit := c.Action(func() {
		f.Submit(c.Lifetime())
	}, live.WithRateLimit(deps.SubmitRate, deps.SubmitBurst))

	c.View(func() h.H {
		return f.render(greeting, submit.OnSubmit(), name.Bind(), email.Bind(), message.Bind())
	})
	return f
}

func (f *Form) render(greeting string, onSubmit, bindName, bindEmail, bindMessage h.H) h.H {
	f.mu.Lock()
	status, fieldErrs, submitting := f.status, f.fieldErrs, f.submitting
	f.mu.Unlock()

	label := "Send Message"
	if submitting {
		label = "Sending..."
	}
	return h.Div(h.Class("contact-form"),
		h.If(greeting != "", h.P(h.Class("greeting"), h.Text(greeting))),
		h.Form(onSubmit,
			field("name", "Full Name", h.Input(h.ID("name"), h.Type("text"), h.Class("form-control"),
				h.Placeholder("Enter your full name"), h.Required(), bindName)),
			field("email", "Email Address", h.Input(h.ID("email"), h.Type("email"), h.Class("form-control"),
				h.Placeholder("Enter your email address"), h.Required(), bindEmail)),
			field("message", "Message", h.Textarea(h.ID("message"), h.Rows(4), h.Class("form-control"),
				h.Placeholder("Tell us how we can help you..."), h.Required(), bindMessage)),
			h.Button(h.Type("submit"), h.Class("btn"), h.If(submitting, h.Disabled()), h.Text(label)),
		),
		h.If(status != "", h.Div(h.Class("status "+statusClass(status)), h.Role("status"),
			h.P(h.Text(status)),
			h.If(len(fieldErrs) > 0, h.Ul(h.Map(fieldErrs, func(_ int, msg string) h.H {
				return h.Li(h.Text(msg))
			}))),
		)),
	)
}

func field(id, label string, input h.H) h.H {
	return h.Div(h.Class("form-group"),
		h.Label(h.For(id), h.Text(label)),
		input,
	)
}

func statusClass(status string) string {
	switch {
	case strings.HasPrefix(status, "Error"):
		return "status-error"
	case status == StatusSuccess:
		return "status-success"
	default:
		return "status-pending"
	}
}

// Page renders the standalone query page.
func Page(deps Deps) func(c *live.Context) {
	return func(c *live.Context) {
		form := c.Component(func(cc *live.Context) {
			New(cc, deps)
		})
		c.View(func() h.H {
			return h.Div(
				shared.Navbar("/query"),
				h.Main(h.Class("query-page"),
					h.Div(h.Class("card"),
						h.Div(h.Class("card-header"),
							h.H1(h.Text("Get In Touch")),
							h.P(h.Text("We'd love to hear from you. Send us a message and we'll respond as soon as possible.")),
						),
						form(),
					),
				),
			)
		})
	}
}
