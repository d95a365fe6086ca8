package highlights

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// MessageKind is the rendering category of a source message
type MessageKind int

const (
	// KindDefault is an ordinary text, attachment or reply message
	KindDefault MessageKind = iota
	// KindPinboardReplica is a highlight of another highlight, copied as is
	KindPinboardReplica
	// KindSnipeReplica is an embed describing a deleted or edited message
	KindSnipeReplica
	// KindGenericRichEmbed is any other rich embed with a description
	KindGenericRichEmbed
)

func (k MessageKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindPinboardReplica:
		return "pinboard-replica"
	case KindSnipeReplica:
		return "snipe-replica"
	case KindGenericRichEmbed:
		return "generic-rich-embed"
	}
	return "unknown"
}

// replicaFooterPrefix starts the footer of every published highlight
const replicaFooterPrefix = "ID:"

// DefaultSnipeAuthorIDs are the accounts of the message log services whose embeds are snipes
var DefaultSnipeAuthorIDs = []string{
	"270904126974590976",
	"499383056822435840",
}

// Classifier assigns a MessageKind to messages as seen by the bot user SelfID
type Classifier struct {
	SelfID         string
	SelfName       string
	SnipeAuthorIDs []string
}

// Classify returns the kind of $msg, the first matching kind in priority order wins
func (c Classifier) Classify(msg *discordgo.Message) MessageKind {
	if msg == nil {
		return KindDefault
	}

	switch {
	case c.isPinboardReplica(msg):
		return KindPinboardReplica
	case c.isSnipeReplica(msg):
		return KindSnipeReplica
	case richEmbedWithDescription(msg) != nil:
		return KindGenericRichEmbed
	}
	return KindDefault
}

func (c Classifier) isPinboardReplica(msg *discordgo.Message) bool {
	if !c.isSelf(msg) || len(msg.Embeds) != 1 {
		return false
	}

	embed := msg.Embeds[0]
	if embed == nil {
		return false
	}
	return embedAuthorName(embed) != c.SelfName &&
		len(embed.Fields) > 0 &&
		embed.Footer != nil &&
		strings.HasPrefix(embed.Footer.Text, replicaFooterPrefix)
}

func (c Classifier) isSnipeReplica(msg *discordgo.Message) bool {
	if len(msg.Embeds) <= 0 || msg.Embeds[0] == nil || msg.Author == nil {
		return false
	}

	authorName := embedAuthorName(msg.Embeds[0])
	if c.isSnipeAuthor(msg.Author.ID) && authorName != "" {
		return true
	}
	return c.isSelf(msg) && authorName != c.SelfName
}

func (c Classifier) isSelf(msg *discordgo.Message) bool {
	return msg.Author != nil && c.SelfID != "" && msg.Author.ID == c.SelfID
}

func (c Classifier) isSnipeAuthor(userID string) bool {
	for _, snipeAuthorID := range c.SnipeAuthorIDs {
		if snipeAuthorID == userID {
			return true
		}
	}
	return false
}

// richEmbedWithDescription returns the first rich embed of $msg with a description
func richEmbedWithDescription(msg *discordgo.Message) *discordgo.MessageEmbed {
	for _, embed := range msg.Embeds {
		if embed != nil && embed.Type == discordgo.EmbedTypeRich && embed.Description != "" {
			return embed
		}
	}
	return nil
}

func embedAuthorName(embed *discordgo.MessageEmbed) string {
	if embed == nil || embed.Author == nil {
		return ""
	}
	return embed.Author.Name
}
