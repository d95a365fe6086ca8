package highlights

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMentionAuthorExtractor(t *testing.T) {
	extractor := MentionAuthorExtractor{}

	_, ok := extractor.ExtractLikelyAuthor(&discordgo.Message{})
	assert.False(t, ok)

	authorID, ok := extractor.ExtractLikelyAuthor(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{{
		Description: "message by <@!222222222222222222> deleted",
		Author:      &discordgo.MessageEmbedAuthor{URL: "https://discord.com/users/333333333333333333"},
		Footer:      &discordgo.MessageEmbedFooter{Text: "Author: 444444444444444444 | Message ID: 1"},
	}}})
	assert.True(t, ok)
	assert.Equal(t, "444444444444444444", authorID)

	authorID, ok = extractor.ExtractLikelyAuthor(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{{
		Description: "message by <@!222222222222222222> deleted",
		Author:      &discordgo.MessageEmbedAuthor{URL: "https://discord.com/users/333333333333333333"},
	}}})
	assert.True(t, ok)
	assert.Equal(t, "333333333333333333", authorID)

	authorID, ok = extractor.ExtractLikelyAuthor(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{{
		Description: "message by <@!222222222222222222> deleted",
	}}})
	assert.True(t, ok)
	assert.Equal(t, "222222222222222222", authorID)

	_, ok = extractor.ExtractLikelyAuthor(&discordgo.Message{Embeds: []*discordgo.MessageEmbed{{
		Description: "nothing to see",
		Footer:      &discordgo.MessageEmbedFooter{Text: "today at 12:00"},
	}}})
	assert.False(t, ok)
}
