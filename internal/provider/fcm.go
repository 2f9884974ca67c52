package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/go-resty/resty/v2"
)

const defaultFCMTimeout = 10 * time.Second

type fcmRequest struct {
	RegistrationIDs []string        `json:"registration_ids"`
	Notification    fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// FCMProvider multicasts notifications through the FCM legacy HTTP API.
type FCMProvider struct {
	client    *resty.Client
	endpoint  string
	serverKey string
}

func NewFCMProvider(endpoint, serverKey string) (*FCMProvider, error) {
	client := resty.New()
	client.SetTimeout(defaultFCMTimeout)
	client.SetRetryCount(0)

	return NewFCMProviderWithClient(endpoint, serverKey, client)
}

func NewFCMProviderWithClient(endpoint, serverKey string, client *resty.Client) (*FCMProvider, error) {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		return nil, fmt.Errorf("fcm endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmedEndpoint); err != nil {
		return nil, fmt.Errorf("invalid fcm endpoint: %w", err)
	}
	if strings.TrimSpace(serverKey) == "" {
		return nil, fmt.Errorf("fcm server key is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultFCMTimeout)
	}
	client.SetRetryCount(0)

	return &FCMProvider{
		client:    client,
		endpoint:  trimmedEndpoint,
		serverKey: strings.TrimSpace(serverKey),
	}, nil
}

func (p *FCMProvider) SendBatch(ctx context.Context, tokens []string, msg PushMessage) (*BatchResult, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens supplied")
	}
	if len(tokens) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d tokens", ErrBatchTooLarge, len(tokens))
	}
	if strings.TrimSpace(msg.Title) == "" {
		return nil, fmt.Errorf("message title is required")
	}

	reqBody := fcmRequest{
		RegistrationIDs: tokens,
		Notification: fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
			Icon:  msg.Icon,
		},
	}

	var fcmResp fcmResponse
	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "key="+p.serverKey).
		SetBody(reqBody).
		SetResult(&fcmResp).
		Post(p.endpoint)
	if err != nil {
		return nil, &ProviderError{
			Message:   "fcm request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "fcm returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return nil, &ProviderError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("fcm returned status %d", statusCode),
			Transient:  isTransientHTTPStatus(statusCode),
		}
	}

	// Results line up with registration_ids by position.
	outcomes := make([]domain.DeliveryOutcome, 0, len(fcmResp.Results))
	for idx, res := range fcmResp.Results {
		token := ""
		if idx < len(tokens) {
			token = tokens[idx]
		}

		outcomes = append(outcomes, domain.DeliveryOutcome{
			Token:     token,
			MessageID: res.MessageID,
			ErrorCode: res.Error,
		})
	}

	return &BatchResult{
		Success:  fcmResp.Success,
		Failure:  fcmResp.Failure,
		Outcomes: outcomes,
	}, nil
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}
