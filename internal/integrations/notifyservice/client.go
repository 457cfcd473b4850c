package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент сервиса уведомлений (SMS/email)
// Доставка уведомлений - fire-and-forget побочный эффект: вызывающая сторона
// логирует ошибки и никогда не фейлит бизнес-операцию из-за этого клиента
type Client struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
// При enabled=false все отправки превращаются в no-op
func NewClient(baseURL string, timeout time.Duration, enabled bool, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendAppointmentCreated отправляет уведомление о созданной записи
func (c *Client) SendAppointmentCreated(ctx context.Context, event *AppointmentCreatedEvent) error {
	if !c.enabled {
		c.log.Info("Notifications disabled, skipping appointment-created event for appointment_id=%d", event.AppointmentID)
		return nil
	}
	return c.post(ctx, "/internal/notifications/appointment-created", event)
}

// SendReviewInvite отправляет приглашение оставить отзыв
func (c *Client) SendReviewInvite(ctx context.Context, event *ReviewInviteEvent) error {
	if !c.enabled {
		c.log.Info("Notifications disabled, skipping review-invite event for appointment_id=%d", event.AppointmentID)
		return nil
	}
	return c.post(ctx, "/internal/notifications/review-invite", event)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
}
