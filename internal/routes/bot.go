package routes

import (
	"context"
	"log/slog"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/knufflepuffle/lfg-bot/internal/handlers"
)

// RegisterBotHandlers connects gateway events to the command and interaction
// handlers. Each event gets its own deadline of timeout.
func RegisterBotHandlers(
	session *discordgo.Session,
	log *slog.Logger,
	commands *handlers.CommandHandler,
	interactions *handlers.InteractionHandler,
	timeout time.Duration,
) {
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("connected to discord", slog.String("user", r.User.String()), slog.Int("guilds", len(r.Guilds)))
	})

	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, ok := commands.Handle(ctx, handlers.Command{
			ChannelID: m.ChannelID,
			UserID:    m.Author.ID,
			Content:   m.Content,
		})
		if !ok || reply == "" {
			return
		}

		if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference(), discordgo.WithContext(ctx)); err != nil {
			log.Warn("failed to reply to command", slog.String("channelID", m.ChannelID), sl.Err(err))
		}
	})

	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent {
			return
		}

		in := handlers.Interaction{
			ChannelID: i.ChannelID,
			UserID:    interactionUserID(i),
			CustomID:  i.MessageComponentData().CustomID,
			Values:    i.MessageComponentData().Values,
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// acknowledge first, the handlers may need more than the three seconds
		// discord waits for an answer
		deferred := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		}
		if handlers.UpdatesMessage(in.CustomID) {
			deferred = &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
		}
		if err := s.InteractionRespond(i.Interaction, deferred, discordgo.WithContext(ctx)); err != nil {
			log.Warn("failed to acknowledge interaction", slog.String("customID", in.CustomID), sl.Err(err))
			return
		}

		resp, ok := interactions.Handle(ctx, in)
		if !ok {
			resp = handlers.Response{Content: "This control is no longer supported."}
		}

		edit := &discordgo.WebhookEdit{Content: &resp.Content}
		if resp.Components != nil {
			edit.Components = &resp.Components
		}
		if _, err := s.InteractionResponseEdit(i.Interaction, edit, discordgo.WithContext(ctx)); err != nil {
			log.Warn("failed to answer interaction", slog.String("customID", in.CustomID), sl.Err(err))
		}
	})
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
