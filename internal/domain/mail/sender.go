package mail

import (
	"context"

	"saletype/internal/core/apperror"
	"saletype/internal/core/id"
	"saletype/pkg/logger"
)

// SendOptions selects how a send behaves.
type SendOptions struct {
	// ForceSend delivers through the gateway now instead of queueing
	ForceSend bool

	// RaiseOnError returns failures to the caller. Without it failures
	// are logged, the message is queued for retry and the send succeeds.
	RaiseOnError bool
}

// Strict is used for user-triggered sends.
func Strict() SendOptions { return SendOptions{ForceSend: true, RaiseOnError: true} }

// BestEffort is used for automatic notifications.
func BestEffort() SendOptions { return SendOptions{ForceSend: true, RaiseOnError: false} }

// Status of a send.
type Status string

const (
	StatusSent             Status = "sent"
	StatusQueued           Status = "queued"
	StatusTemplateRequired Status = "template_required"
	StatusSkipped          Status = "skipped"
	StatusFailed           Status = "failed"
)

// Result describes what a send did.
type Result struct {
	Status  Status   `json:"status"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Gateway delivers a rendered message.
type Gateway interface {
	Deliver(ctx context.Context, msg Message) error
}

// Queue stores a message for later delivery by the worker.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// TemplateGetter loads templates.
type TemplateGetter interface {
	GetByID(ctx context.Context, templateID id.ID) (*Template, error)
}

// Request is one document mail.
type Request struct {
	// TemplateID is the template configured on the sale type; nil when none
	TemplateID *id.ID

	Model    string
	RecordID id.ID

	// To is the recipient address; empty skips the send
	To string

	// Lang of the recipient, used when the template does not force one
	Lang string

	Render RenderContext
}

// Sender renders templates and applies the send policy.
type Sender struct {
	templates   TemplateGetter
	gateway     Gateway
	queue       Queue
	defaultFrom string
}

// NewSender creates a sender. defaultFrom is used when a template has no sender.
func NewSender(templates TemplateGetter, gateway Gateway, queue Queue, defaultFrom string) *Sender {
	return &Sender{
		templates:   templates,
		gateway:     gateway,
		queue:       queue,
		defaultFrom: defaultFrom,
	}
}

// Send renders the request's template and delivers or queues it.
func (s *Sender) Send(ctx context.Context, req Request, opts SendOptions) (Result, error) {
	if req.TemplateID == nil || id.IsNil(*req.TemplateID) {
		if opts.RaiseOnError {
			return Result{Status: StatusTemplateRequired}, apperror.NewMailTemplateMissing(req.Model, req.RecordID.String())
		}
		logger.Info(ctx, "no mail template, nothing sent", "model", req.Model, "record_id", req.RecordID)
		return Result{Status: StatusTemplateRequired}, nil
	}

	msg, err := s.build(ctx, *req.TemplateID, req)
	if err != nil {
		return s.fail(ctx, req, opts, err)
	}
	if msg.To == "" {
		if opts.RaiseOnError {
			return Result{Status: StatusSkipped, Message: msg}, apperror.NewValidation("recipient has no email address").
				WithDetail("field", "email")
		}
		logger.Warn(ctx, "recipient has no email address, mail skipped", "model", req.Model, "record_id", req.RecordID)
		return Result{Status: StatusSkipped, Message: msg}, nil
	}

	if !opts.ForceSend {
		if err := s.queue.Enqueue(ctx, *msg); err != nil {
			return s.fail(ctx, req, opts, err)
		}
		return Result{Status: StatusQueued, Message: msg}, nil
	}

	err = s.gateway.Deliver(ctx, *msg)
	if err == nil {
		logger.Info(ctx, "mail sent", "template_id", msg.TemplateID, "model", msg.Model, "record_id", msg.RecordID)
		return Result{Status: StatusSent, Message: msg}, nil
	}
	if opts.RaiseOnError {
		return Result{Status: StatusFailed, Message: msg, Error: err.Error()}, apperror.NewMailDelivery(msg.TemplateID, err)
	}

	logger.Warn(ctx, "mail delivery failed, queued for retry",
		"template_id", msg.TemplateID, "record_id", msg.RecordID, "error", err)
	if qErr := s.queue.Enqueue(ctx, *msg); qErr != nil {
		logger.Error(ctx, "mail retry could not be queued", "template_id", msg.TemplateID, "error", qErr)
		return Result{Status: StatusFailed, Message: msg, Error: err.Error()}, nil
	}
	return Result{Status: StatusQueued, Message: msg, Error: err.Error()}, nil
}

func (s *Sender) fail(ctx context.Context, req Request, opts SendOptions, err error) (Result, error) {
	if opts.RaiseOnError {
		if apperror.IsAppError(err) {
			return Result{Status: StatusFailed, Error: err.Error()}, err
		}
		tpl := ""
		if req.TemplateID != nil {
			tpl = req.TemplateID.String()
		}
		return Result{Status: StatusFailed, Error: err.Error()}, apperror.NewMailDelivery(tpl, err)
	}
	logger.Warn(ctx, "mail not sent", "model", req.Model, "record_id", req.RecordID, "error", err)
	return Result{Status: StatusFailed, Error: err.Error()}, nil
}

func (s *Sender) build(ctx context.Context, templateID id.ID, req Request) (*Message, error) {
	t, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.Model != req.Model {
		return nil, apperror.NewValidation("mail template belongs to another model").
			WithDetail("template_id", t.ID.String()).
			WithDetail("model", t.Model)
	}

	lang := req.Lang
	if t.Lang != nil && *t.Lang != "" {
		lang = *t.Lang
	}
	rc := req.Render
	rc.Lang = lang

	subject, body, err := Render(t, rc)
	if err != nil {
		return nil, err
	}

	from := s.defaultFrom
	if t.EmailFrom != nil && *t.EmailFrom != "" {
		from = *t.EmailFrom
	}
	return &Message{
		TemplateID: t.ID.String(),
		Model:      req.Model,
		RecordID:   req.RecordID.String(),
		From:       from,
		To:         req.To,
		Subject:    subject,
		Body:       body,
		Lang:       lang,
	}, nil
}
