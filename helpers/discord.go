package helpers

import (
	"fmt"
	"strings"

	"github.com/Seklfreak/highlights/cache"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// IsMod returns true if the author of $msg may manage the server the message was sent in
func IsMod(msg *discordgo.Message) bool {
	if msg == nil || msg.Author == nil {
		return false
	}
	if ownerID := ConfigString("owner_id"); ownerID != "" && ownerID == msg.Author.ID {
		return true
	}

	permissions, err := cache.GetSession().UserChannelPermissions(msg.Author.ID, msg.ChannelID)
	if err != nil {
		return false
	}
	return permissions&discordgo.PermissionManageServer == discordgo.PermissionManageServer ||
		permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// UserTag returns the unique name of $user, with the discriminator if the account still has one
func UserTag(user *discordgo.User) string {
	if user == nil {
		return ""
	}
	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username
	}
	return user.Username + "#" + user.Discriminator
}

// DisplayName returns the nickname of $member or the username of $user
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return ""
	}
	return user.Username
}

// MessageLink builds the permalink of a message, $guildID may be empty for DMs
func MessageLink(guildID, channelID, messageID string) string {
	if guildID == "" {
		guildID = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

// ParseMessageReference accepts a message link or "<channel id> <message id>" and returns the ids
func ParseMessageReference(args []string, defaultChannelID string) (channelID, messageID string, err error) {
	if len(args) <= 0 {
		return "", "", errors.New("no message reference passed")
	}

	if parts := MessageLinkRegex.FindStringSubmatch(strings.TrimSpace(args[0])); len(parts) == 4 {
		return parts[2], parts[3], nil
	}

	if len(args) >= 2 && SnowflakeRegex.MatchString(args[0]) && SnowflakeRegex.MatchString(args[1]) {
		channelID := args[0]
		if parts := ChannelRegexStrict.FindStringSubmatch(args[0]); len(parts) == 2 {
			channelID = parts[1]
		}
		return channelID, args[1], nil
	}

	if SnowflakeRegex.MatchString(args[0]) && defaultChannelID != "" {
		return defaultChannelID, args[0], nil
	}

	return "", "", errors.New("invalid message reference")
}

// GetChannelFromMention resolves a channel mention or channel id of the guild $guildID
func GetChannelFromMention(guildID string, mention string) (*discordgo.Channel, error) {
	channelID := strings.TrimSpace(mention)
	if parts := ChannelRegexStrict.FindStringSubmatch(channelID); len(parts) == 2 {
		channelID = parts[1]
	}

	channel, err := GetChannel(channelID)
	if err != nil {
		return nil, err
	}
	if channel.GuildID != guildID {
		return nil, errors.New("channel not found")
	}
	return channel, nil
}

// GetChannel returns the channel from the state, or requests it
func GetChannel(channelID string) (*discordgo.Channel, error) {
	channel, err := cache.GetSession().State.Channel(channelID)
	if err == nil {
		return channel, nil
	}
	return cache.GetSession().Channel(channelID)
}

// GetMessage returns the message from the state, or requests it
func GetMessage(channelID string, messageID string) (*discordgo.Message, error) {
	message, err := cache.GetSession().State.Message(channelID, messageID)
	if err == nil {
		return message, nil
	}
	return cache.GetSession().ChannelMessage(channelID, messageID)
}

// GetUser returns the user from a cached guild member, or requests it
func GetUser(userID string) (*discordgo.User, error) {
	for _, guild := range cache.GetSession().State.Guilds {
		member, err := cache.GetSession().State.Member(guild.ID, userID)
		if err == nil && member.User != nil {
			return member.User, nil
		}
	}
	return cache.GetSession().User(userID)
}
