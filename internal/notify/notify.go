// Package notify delivers board notifications to the terminal and Slack.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/slack-go/slack"
)

var levelIcons = map[entity.NotificationLevel]string{
	entity.LevelSuccess: "✔",
	entity.LevelError:   "✖",
	entity.LevelInfo:    "•",
}

// Console writes one line per notification.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(_ context.Context, n entity.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, formatLine(n))
}

// Slack posts notifications to a channel. Posting failures are logged.
type Slack struct {
	client    contract.SlackClient
	channelID string
}

func NewSlack(client contract.SlackClient, channelID string) *Slack {
	return &Slack{client: client, channelID: channelID}
}

func (s *Slack) Notify(ctx context.Context, n entity.Notification) {
	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(formatSlack(n), false),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		log.Printf("Failed to post notification to Slack channel %s: %v", s.channelID, err)
	}
}

// Multi fans a notification out to several notifiers in order.
type Multi []contract.Notifier

func (m Multi) Notify(ctx context.Context, n entity.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

func formatLine(n entity.Notification) string {
	icon, ok := levelIcons[n.Level]
	if !ok {
		icon = levelIcons[entity.LevelInfo]
	}
	if n.Message == "" {
		return fmt.Sprintf("%s %s", icon, n.Title)
	}
	return fmt.Sprintf("%s %s: %s", icon, n.Title, n.Message)
}

func formatSlack(n entity.Notification) string {
	emoji := ":information_source:"
	switch n.Level {
	case entity.LevelSuccess:
		emoji = ":white_check_mark:"
	case entity.LevelError:
		emoji = ":x:"
	}
	if n.Message == "" {
		return fmt.Sprintf("%s *%s*", emoji, n.Title)
	}
	return fmt.Sprintf("%s *%s*\n%s", emoji, n.Title, n.Message)
}
