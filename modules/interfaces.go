package modules

import "github.com/bwmarrin/discordgo"

type BaseModule interface{}

type Plugin interface {
	BaseModule

	Commands() []string

	Init(session *discordgo.Session)

	Action(
		command string,
		content string,
		msg *discordgo.Message,
		session *discordgo.Session,
	)
}

// ReactionPlugin is a Plugin that also listens to reactions
type ReactionPlugin interface {
	Plugin

	OnReactionAdd(
		reaction *discordgo.MessageReactionAdd,
		session *discordgo.Session,
	)

	OnReactionRemove(
		reaction *discordgo.MessageReactionRemove,
		session *discordgo.Session,
	)
}
