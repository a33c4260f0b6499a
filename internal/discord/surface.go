package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services"
)

// Surface sends and edits bot messages through a discordgo session.
type Surface struct {
	session *discordgo.Session
}

func NewSurface(session *discordgo.Session) *Surface {
	return &Surface{session: session}
}

func (s *Surface) Send(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	const op = "discord.Surface.Send"

	sent, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     Embeds(msg.Embed),
		Components: Components(msg),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, classify(err))
	}
	return sent.ID, nil
}

func (s *Surface) Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error {
	const op = "discord.Surface.Edit"

	content := msg.Content
	embeds := Embeds(msg.Embed)
	components := Components(msg)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Surface) Fetch(ctx context.Context, channelID, messageID string) error {
	const op = "discord.Surface.Fetch"

	if _, err := s.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Surface) Delete(ctx context.Context, channelID, messageID string) error {
	const op = "discord.Surface.Delete"

	if err := s.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// IsAdmin reports whether the user holds the administrator permission in the channel.
func (s *Surface) IsAdmin(ctx context.Context, channelID, userID string) (bool, error) {
	const op = "discord.Surface.IsAdmin"

	if userID == "" {
		return false, nil
	}

	perms, err := s.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, classify(err))
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}

// classify maps a missing message or channel onto services.ErrNotFound; every
// other failure is a remote failure.
func classify(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
				return fmt.Errorf("%w: %w", services.ErrNotFound, err)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", services.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", services.ErrRemoteFailure, err)
}
