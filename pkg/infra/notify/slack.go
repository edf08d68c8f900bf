// Package notify reports finished runs to Slack via an incoming webhook.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
)

type slackNotifier struct {
	webhookURL string
}

// NewSlack creates a Notifier posting run summaries to a Slack incoming
// webhook.
func NewSlack(webhookURL string) interfaces.Notifier {
	return &slackNotifier{webhookURL: webhookURL}
}

func (n *slackNotifier) NotifyRun(ctx context.Context, record *model.RunRecord) error {
	color := "good"
	if record.Status != model.RunStatusSucceeded {
		color = "danger"
	}

	fields := []slack.AttachmentField{
		{Title: "Status", Value: string(record.Status), Short: true},
		{Title: "Trigger", Value: string(record.Trigger), Short: true},
		{Title: "Duration", Value: record.Duration().Round(time.Second).String(), Short: true},
	}
	if record.ChannelCount > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Channels", Value: fmt.Sprintf("%d", record.ChannelCount), Short: true,
		})
	}
	if record.CommitMessage != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "Commit", Value: record.CommitMessage,
		})
	}
	if record.Error != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "Error", Value: record.Error,
		})
	}

	msg := &slack.WebhookMessage{
		Attachments: []slack.Attachment{{
			Color:  color,
			Title:  fmt.Sprintf("antenna run %s: %s", record.ID, record.Status),
			Fields: fields,
		}},
	}

	return slack.PostWebhookContext(ctx, n.webhookURL, msg)
}
