// Package discord is the delivery side of the bot: one fixed channel,
// plain text messages.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"groundbot/internal/logger"
	"groundbot/internal/retry"
)

// MaxMessageLength is Discord's hard cap on message content.
const MaxMessageLength = 2000

// ErrMessageTooLong is returned instead of attempting a send the API
// would reject; callers fall back to a minimal message.
var ErrMessageTooLong = errors.New("message exceeds delivery length limit")

type Client struct {
	session   *discordgo.Session
	channelID string
	retryCfg  retry.Config
}

// New creates the session and opens the gateway connection.
func New(token, channelID string, retryCfg retry.Config) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord session: %w", err)
	}

	logger.Info("discord connected", "channel", channelID)
	return &Client{
		session:   session,
		channelID: channelID,
		retryCfg:  retryCfg,
	}, nil
}

// Send posts content to the configured channel, retrying transient
// failures. Content over the length cap is refused locally.
func (c *Client) Send(ctx context.Context, content string) error {
	if len(content) > MaxMessageLength {
		return ErrMessageTooLong
	}

	return retry.Do(ctx, c.retryCfg, func() error {
		_, err := c.session.ChannelMessageSend(c.channelID, content)
		if err != nil {
			logger.Warn("discord send failed", "error", err)
		}
		return err
	})
}

// Announce posts a short status line, best effort.
func (c *Client) Announce(ctx context.Context, text string) {
	if err := c.Send(ctx, text); err != nil {
		logger.Warn("announcement not delivered", "error", err)
	}
}

func (c *Client) Close() error {
	return c.session.Close()
}
