// Package whatsapp sends text messages through the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/station/internal/config"
)

// Sender delivers a text message and returns the id WhatsApp assigned to it.
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// APIError is a failure reported by the Graph API.
type APIError struct {
	Status  int
	Code    int
	Message string
	TraceID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api: status %d code %d: %s", e.Status, e.Code, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// Client sends messages from one business phone number.
type Client struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a client for cfg. Rate limits and server errors are retried twice.
func NewClient(cfg config.WhatsAppConfig) *Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.APIVersion).
		SetAuthToken(cfg.AccessToken).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{httpClient: restyClient, phoneNumberID: cfg.PhoneNumberID}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendResult struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendText sends body to the recipient phone number (international format, no +).
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	to = strings.TrimPrefix(strings.TrimSpace(to), "+")
	if to == "" {
		return "", errors.New("whatsapp recipient is empty")
	}

	var result sendResult
	var failure errorEnvelope
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(textMessage{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               to,
			Type:             "text",
			Text:             textBody{Body: body},
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/" + c.phoneNumberID + "/messages")
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", &APIError{
			Status:  resp.StatusCode(),
			Code:    failure.Error.Code,
			Message: msg,
			TraceID: failure.Error.FBTraceID,
		}
	}

	if len(result.Messages) == 0 {
		return "", errors.New("whatsapp api returned no message id")
	}
	return result.Messages[0].ID, nil
}
