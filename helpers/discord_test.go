package helpers

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageReference(t *testing.T) {
	channelID, messageID, err := ParseMessageReference(
		[]string{"https://discord.com/channels/111111111111111111/222222222222222222/333333333333333333"}, "")
	require.NoError(t, err)
	assert.Equal(t, "222222222222222222", channelID)
	assert.Equal(t, "333333333333333333", messageID)

	channelID, messageID, err = ParseMessageReference(
		[]string{"<#222222222222222222>", "333333333333333333"}, "")
	require.NoError(t, err)
	assert.Equal(t, "222222222222222222", channelID)
	assert.Equal(t, "333333333333333333", messageID)

	channelID, messageID, err = ParseMessageReference([]string{"333333333333333333"}, "444444444444444444")
	require.NoError(t, err)
	assert.Equal(t, "444444444444444444", channelID)
	assert.Equal(t, "333333333333333333", messageID)

	_, _, err = ParseMessageReference([]string{"hello"}, "444444444444444444")
	assert.Error(t, err)

	_, _, err = ParseMessageReference(nil, "")
	assert.Error(t, err)
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://discord.com/channels/1/2/3", MessageLink("1", "2", "3"))
	assert.Equal(t, "https://discord.com/channels/@me/2/3", MessageLink("", "2", "3"))
}

func TestUserTagAndDisplayName(t *testing.T) {
	legacy := &discordgo.User{Username: "sekl", Discriminator: "1234"}
	migrated := &discordgo.User{Username: "sekl", Discriminator: "0"}

	assert.Equal(t, "sekl#1234", UserTag(legacy))
	assert.Equal(t, "sekl", UserTag(migrated))
	assert.Equal(t, "", UserTag(nil))

	assert.Equal(t, "Sekl", DisplayName(&discordgo.Member{Nick: "Sekl"}, legacy))
	assert.Equal(t, "sekl", DisplayName(&discordgo.Member{}, legacy))
	assert.Equal(t, "sekl", DisplayName(nil, legacy))
	assert.Equal(t, "sekl", DisplayName(&discordgo.Member{User: migrated}, nil))
}

func TestGetText(t *testing.T) {
	LoadTranslations()

	assert.Equal(t, "Set a highlight channel first.", GetText("plugins.highlights.force-no-channel"))
	assert.Equal(t, "unknown.key", GetText("unknown.key"))
	assert.Equal(t, "Highlights will be posted in <#1>.", GetTextF("plugins.highlights.set-success", "1"))
}
