package highlights

import (
	"context"
	"fmt"

	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/metrics"
	"github.com/bwmarrin/discordgo"
)

const unresolvedReplyName = "a message"

// replyContext returns the title and link of a highlight of an inline reply
func (r *Renderer) replyContext(ctx context.Context, msg *discordgo.Message) (title string, link string) {
	reference := msg.MessageReference

	referenceChannelID := reference.ChannelID
	if referenceChannelID == "" {
		referenceChannelID = msg.ChannelID
	}
	referenceGuildID := reference.GuildID
	if referenceGuildID == "" {
		referenceGuildID = msg.GuildID
	}

	referenced := msg.ReferencedMessage
	if referenced == nil && reference.MessageID != "" && r.Messages != nil {
		fetched, ok := r.Messages.FetchMessage(ctx, referenceChannelID, reference.MessageID)
		if ok {
			referenced = fetched
		} else {
			metrics.ReplyFetchFailures.Add(1)
			r.logger().WithField("channelID", referenceChannelID).WithField("messageID", reference.MessageID).
				Debug("fetching replied to message failed")
		}
	}

	referencedName := unresolvedReplyName
	if referenced != nil && referenced.Author != nil {
		referencedName = r.referencedDisplayName(ctx, msg.GuildID, referenced)

		channelID := referenced.ChannelID
		if channelID == "" {
			channelID = referenceChannelID
		}
		guildID := referenced.GuildID
		if guildID == "" {
			guildID = referenceGuildID
		}
		link = helpers.MessageLink(guildID, channelID, referenced.ID)
	}

	// the permalink can be built without the message, as long as the ids are known
	if link == "" && reference.MessageID != "" && reference.GuildID != "" {
		link = helpers.MessageLink(reference.GuildID, referenceChannelID, reference.MessageID)
	}

	title = fmt.Sprintf("%s replied to %s:", messageIdentity(msg).DisplayName, referencedName)
	return title, link
}

// referencedDisplayName returns the nickname of the replied to author, messages attached to
// references usually come without member data so the nickname needs a lookup
func (r *Renderer) referencedDisplayName(ctx context.Context, guildID string, referenced *discordgo.Message) string {
	if referenced.Member != nil && referenced.Member.Nick != "" {
		return referenced.Member.Nick
	}
	if guildID != "" && r.Identities != nil {
		if identity, ok := r.Identities.ResolveIdentity(ctx, guildID, referenced.Author.ID); ok && identity.DisplayName != "" {
			return identity.DisplayName
		}
	}
	return helpers.DisplayName(referenced.Member, referenced.Author)
}
