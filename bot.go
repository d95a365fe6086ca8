package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/modules"
	"github.com/Seklfreak/highlights/ratelimits"
	"github.com/bwmarrin/discordgo"
)

var settingsUpdaterOnce sync.Once

// BotOnReady gets called after the gateway connected
func BotOnReady(session *discordgo.Session, event *discordgo.Ready) {
	log := cache.GetLogger()

	log.WithField("module", "bot").Info("Connected to discord!")
	log.WithField("module", "bot").Info("Invite link: " + fmt.Sprintf(
		"https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d",
		event.User.ID,
		discordgo.PermissionSendMessages|discordgo.PermissionEmbedLinks|
			discordgo.PermissionAddReactions|discordgo.PermissionReadMessageHistory|
			discordgo.PermissionViewChannel,
	))

	// Cache the session
	cache.SetSession(session)

	// Load and init all modules
	modules.Init(session)

	// Run async worker for guild changes, once across reconnects
	settingsUpdaterOnce.Do(func() {
		go helpers.GuildSettingsUpdater()
	})
}

// BotOnMessageCreate gets called after a new message was sent
// This will be called after *every* message on *every* server so it should die as soon as possible
// or spawn costly work inside of coroutines.
func BotOnMessageCreate(session *discordgo.Session, message *discordgo.MessageCreate) {
	// Ignore other bots and @everyone/@here
	if message.Author == nil || message.Author.Bot || message.MentionEveryone {
		return
	}

	// Commands only work on servers
	if message.GuildID == "" {
		return
	}

	// Check if the message contains @mentions for us
	if strings.HasPrefix(message.Content, "<@") && len(message.Mentions) > 0 && message.Mentions[0].ID == session.State.User.ID {
		msg := strings.TrimSpace(helpers.UserRegexStrict.ReplaceAllString(message.Content, ""))
		if strings.EqualFold(msg, "prefix") {
			cache.GetSession().ChannelMessageSend(
				message.ChannelID,
				helpers.GetTextF("bot.prefix.is", helpers.GetPrefixForServer(message.GuildID)),
			)
		}
		return
	}

	// Only continue if a prefix is set
	prefix := helpers.GetPrefixForServer(message.GuildID)
	if prefix == "" {
		return
	}

	// Check if the message is prefixed for us
	// If not exit
	if !strings.HasPrefix(message.Content, prefix) {
		return
	}

	// Split the message into parts
	parts := strings.Fields(message.Content)
	if len(parts) <= 0 {
		return
	}

	// Save a sanitized version of the command (no prefix)
	cmd := strings.TrimPrefix(parts[0], prefix)
	if !modules.IsCommand(cmd) {
		return
	}

	// Check if the user is allowed to request commands
	if ratelimits.Container.Drain(1, message.Author.ID) != nil {
		if ratelimits.Container.Block(message.Author.ID) {
			session.ChannelMessageSend(message.ChannelID, helpers.GetTextF("bot.ratelimit.hit", message.Author.ID))
		}
		return
	}

	// Separate arguments from the command
	content := strings.TrimSpace(strings.TrimPrefix(message.Content, parts[0]))

	// Log commands
	cache.GetLogger().WithField("module", "bot").WithField("guildID", message.GuildID).Debug(fmt.Sprintf("%s (#%s): %s",
		message.Author.Username, message.Author.ID, message.Content))

	// Check if a module matches said command
	go modules.CallBotPlugin(cmd, content, message.Message)
}

// BotOnReactionAdd gets called after a reaction is added
// This will be called after *every* reaction added on *every* server so it
// should die as soon as possible or spawn costly work inside of coroutines.
func BotOnReactionAdd(session *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	if session.State.User != nil && reaction.UserID == session.State.User.ID {
		return
	}
	modules.CallPluginOnReactionAdd(reaction)
}

func BotOnReactionRemove(session *discordgo.Session, reaction *discordgo.MessageReactionRemove) {
	if session.State.User != nil && reaction.UserID == session.State.User.ID {
		return
	}
	modules.CallPluginOnReactionRemove(reaction)
}
