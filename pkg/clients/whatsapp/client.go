package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/washify/internal/config"
)

// ErrInvalidRecipient is returned when a phone number has no digits left
// after normalization.
var ErrInvalidRecipient = errors.New("invalid whatsapp recipient")

// Sender delivers plain-text WhatsApp messages.
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// APIClient talks to the WhatsApp Cloud API through resty.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a client for the configured business phone number.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendText posts a text message and returns the id Meta assigned to it.
func (c *APIClient) SendText(ctx context.Context, to, body string) (string, error) {
	recipient := NormalizePhone(to)
	if recipient == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	payload := textPayload{MessagingProduct: "whatsapp", To: recipient, Type: "text"}
	payload.Text.Body = body

	result := new(sendResponse)
	failure := new(apiError)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(failure).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if failure.Error.Code != 0 {
			code = failure.Error.Code
		}
		return "", fmt.Errorf("whatsapp api error: code=%d, message=%s", code, failure.Error.Message)
	}

	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

// NormalizePhone strips everything but digits and an international "00"
// prefix, giving the bare E.164 digits the Cloud API expects.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "00")
}
