// Package mail implements mail delivery over an HTTP mail API and the
// outbox queue relayed by the worker.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainmail "saletype/internal/domain/mail"
)

var tracer = otel.Tracer("saletype/infrastructure/mail")

// GatewayConfig configures the HTTP mail API client.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RetryCount is the number of in-request retries on transport errors
	RetryCount int
}

// HTTPGateway posts messages to "{BaseURL}/messages".
type HTTPGateway struct {
	client *resty.Client
}

var _ domainmail.Gateway = (*HTTPGateway)(nil)

// NewHTTPGateway creates a gateway client.
func NewHTTPGateway(cfg GatewayConfig) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &HTTPGateway{client: client}
}

type sendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Headers map[string]string `json:"headers,omitempty"`
}

type sendError struct {
	Message string `json:"message"`
}

// Deliver implements domainmail.Gateway.
func (g *HTTPGateway) Deliver(ctx context.Context, msg domainmail.Message) error {
	ctx, span := tracer.Start(ctx, "mail.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("mail.template_id", msg.TemplateID),
			attribute.String("mail.model", msg.Model),
		))
	defer span.End()

	var apiErr sendError
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", msg.Model+":"+msg.RecordID+":"+msg.TemplateID).
		SetBody(sendRequest{
			From:    msg.From,
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.Body,
			Headers: map[string]string{"X-Record": msg.Model + "/" + msg.RecordID},
		}).
		SetError(&apiErr).
		Post("/messages")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return fmt.Errorf("post message: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		err := fmt.Errorf("mail api returned %d: %s", resp.StatusCode(), apiErr.Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		return err
	}
	return nil
}
