package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SignorelliLorenzo/portfolio/config"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailNotifier mails contact requests through Resend.
type EmailNotifier struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
}

// NewEmailNotifierFromConfig reads RESEND_API_KEY, RESEND_FROM_EMAIL and
// CONTACT_NOTIFY_EMAIL. It returns nil when any of them is unset.
func NewEmailNotifierFromConfig(c map[string]string) *EmailNotifier {
	if !configured("resend", c, "RESEND_API_KEY", "RESEND_FROM_EMAIL", "CONTACT_NOTIFY_EMAIL") {
		return nil
	}
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	from := config.GetString(c, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(c, "CONTACT_NOTIFY_EMAIL")
	return NewEmailNotifier(apiKey, from, recipients)
}

func NewEmailNotifier(apiKey, from string, recipients []string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the notifier at another Resend-compatible URL.
func (n *EmailNotifier) WithEndpoint(endpoint string) *EmailNotifier {
	n.endpoint = endpoint
	return n
}

func (n *EmailNotifier) Name() string { return "resend" }

func (n *EmailNotifier) Notify(ctx context.Context, req models.ContactRequest) error {
	subject := "New contact request from " + req.Name
	if req.Subject != nil && *req.Subject != "" {
		subject = *req.Subject + " (" + req.Name + ")"
	}
	return n.SendEmail(ctx, ResendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Html:    contactHTML(req),
		ReplyTo: req.Email,
	})
}

// SendEmail sends an email using the Resend API
func (n *EmailNotifier) SendEmail(ctx context.Context, payload ResendEmailRequest) error {
	if len(payload.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errs.NewServiceError("resend", 0, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewServiceError("resend", resp.StatusCode, fmt.Errorf("%s", errorResp.Message))
		}
		return errs.NewServiceError("resend", resp.StatusCode, fmt.Errorf("%s", string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

func contactHTML(req models.ContactRequest) string {
	var b strings.Builder
	b.WriteString("<h2>New contact request</h2><ul>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	row("Name", req.Name)
	row("Email", req.Email)
	if req.Company != nil {
		row("Company", *req.Company)
	}
	if req.Subject != nil {
		row("Subject", *req.Subject)
	}
	row("IP", req.IPAddress)
	b.WriteString("</ul><p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>"))
	b.WriteString("</p>")
	return b.String()
}
