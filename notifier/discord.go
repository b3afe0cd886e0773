package notifier

import (
	"context"
	"net/http"
	"time"
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbed struct {
	Title  string         `json:"title"`
	Fields []discordField `json:"fields"`
}

type discordMessage struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

// DiscordTarget posts registrations to a Discord webhook as plain text plus
// an embed with structured fields.
type DiscordTarget struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordTarget(webhookURL string) *DiscordTarget {
	return &DiscordTarget{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *DiscordTarget) Name() string {
	return "discord"
}

func (t *DiscordTarget) Send(ctx context.Context, p Payload) error {
	msg := discordMessage{
		Content: baseText(p) + "\n" + p.URL,
		Embeds: []discordEmbed{{
			Title: "New ipns.io registration",
			Fields: []discordField{
				{Name: "name", Value: p.Name, Inline: true},
				{Name: "owner", Value: p.Owner},
				{Name: "txHash", Value: p.TxHash},
				{Name: "blockTime", Value: p.BlockTime.Format(time.RFC3339), Inline: true},
				{Name: "url", Value: p.URL},
			},
		}},
	}
	return postJSON(ctx, t.client, t.webhookURL, msg)
}
