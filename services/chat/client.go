package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/rating"
)

// webhookNotifier posts notification messages to a chat-channel incoming
// webhook. It implements rating.Notifier.
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

var _ rating.Notifier = (*webhookNotifier)(nil)

func NewWebhookNotifier(conf *core.Config) *webhookNotifier {
	return &webhookNotifier{
		webhookURL: conf.Chat.WebhookURL,
		client:     &http.Client{Timeout: conf.Chat.Timeout},
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (svc *webhookNotifier) SendRatingNotification(ctx context.Context, n rating.RatingNotification) error {
	text := fmt.Sprintf(
		"%s rated learning object %s (author: %s): %q",
		n.RatingAuthor, n.ObjectCUID, n.ObjectAuthor, n.RatingComment,
	)
	return svc.post(ctx, text)
}

func (svc *webhookNotifier) SendFlagNotification(ctx context.Context, n rating.FlagNotification) error {
	text := fmt.Sprintf(
		"%s flagged a rating on %q (author: %s): %q",
		n.Username, n.ObjectName, n.ObjectAuthor, n.RatingComment,
	)
	return svc.post(ctx, text)
}

func (svc *webhookNotifier) post(ctx context.Context, text string) error {
	body, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return errors.Wrap(err, "encoding webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting webhook")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
