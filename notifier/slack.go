package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

// SlackTarget posts registrations to a Slack webhook as mrkdwn text plus a
// section block.
type SlackTarget struct {
	webhookURL string
	client     *http.Client
}

func NewSlackTarget(webhookURL string) *SlackTarget {
	return &SlackTarget{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *SlackTarget) Name() string {
	return "slack"
}

func (t *SlackTarget) Send(ctx context.Context, p Payload) error {
	msg := slackMessage{
		Text: baseText(p) + " " + p.URL,
		Blocks: []slackBlock{{
			Type: "section",
			Text: slackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf(
					"*New ipns.io registration*\n*name:* %s\n*owner:* %s\n*txHash:* %s\n*blockTime:* %s\n*url:* %s",
					p.Name, p.Owner, p.TxHash, p.BlockTime.Format(time.RFC3339), p.URL,
				),
			},
		}},
	}
	return postJSON(ctx, t.client, t.webhookURL, msg)
}
