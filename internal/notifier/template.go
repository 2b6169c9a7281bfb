package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/datebook/internal/models"
)

// ErrNotConfigured is returned by a transport that lacks the settings it needs.
var ErrNotConfigured = errors.New("email transport is not configured")

// TemplateSender delivers email through a hosted template provider. The
// provider renders the message from template_params.
type TemplateSender struct {
	endpoint string
	cfg      models.EmailProviderConfig
	client   *http.Client
}

type templateRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail      string `json:"to_email"`
	EventTitle   string `json:"event_title"`
	EventDate    string `json:"event_date"`
	EventTime    string `json:"event_time"`
	ReminderTime string `json:"reminder_time"`
}

func NewTemplateSender(endpoint string, cfg models.EmailProviderConfig, client *http.Client) *TemplateSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &TemplateSender{endpoint: endpoint, cfg: cfg, client: client}
}

func (s *TemplateSender) Name() string { return "template" }

func (s *TemplateSender) Configured() bool {
	return s.cfg.IsConfigured() && strings.TrimSpace(s.endpoint) != ""
}

func (s *TemplateSender) Send(ctx context.Context, msg models.EmailMessage) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(templateRequest{
		ServiceID:  s.cfg.ServiceID,
		TemplateID: s.cfg.TemplateID,
		UserID:     s.cfg.PublicKey,
		TemplateParams: templateParams{
			ToEmail:      msg.To,
			EventTitle:   msg.EventTitle,
			EventDate:    msg.EventDate,
			EventTime:    msg.EventTime,
			ReminderTime: msg.ReminderTime,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("provider returned status %d: %s", res.StatusCode, strings.TrimSpace(string(text)))
}
