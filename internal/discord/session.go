package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const maxRestRetries = 3

// NewSession prepares a bot session. The websocket is opened by the caller.
func NewSession(token string) (*discordgo.Session, error) {
	const op = "discord.NewSession"

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
	s.ShouldRetryOnRateLimit = true
	s.MaxRestRetries = maxRestRetries
	s.StateEnabled = true

	return s, nil
}
