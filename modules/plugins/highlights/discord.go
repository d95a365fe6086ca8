package highlights

import (
	"context"

	"github.com/Seklfreak/highlights/helpers"
	"github.com/bwmarrin/discordgo"
)

// SessionIdentities resolves users through the state of the session, falling back to the API
type SessionIdentities struct {
	session *discordgo.Session
}

func NewSessionIdentities(session *discordgo.Session) *SessionIdentities {
	return &SessionIdentities{session: session}
}

func (s *SessionIdentities) ResolveIdentity(ctx context.Context, guildID, userID string) (*Identity, bool) {
	if userID == "" {
		return nil, false
	}

	if guildID != "" {
		member, err := s.session.State.Member(guildID, userID)
		if err != nil {
			member, err = s.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		}
		if err == nil && member != nil && member.User != nil {
			return identityOf(member, member.User), true
		}
	}

	user, err := s.session.User(userID, discordgo.WithContext(ctx))
	if err != nil || user == nil {
		return nil, false
	}
	return identityOf(nil, user), true
}

func identityOf(member *discordgo.Member, user *discordgo.User) *Identity {
	return &Identity{
		DisplayName: helpers.DisplayName(member, user),
		Tag:         helpers.UserTag(user),
		AvatarURL:   user.AvatarURL(avatarSize),
	}
}

// SessionMessages fetches messages from the state of the session, falling back to the API
type SessionMessages struct {
	session *discordgo.Session
}

func NewSessionMessages(session *discordgo.Session) *SessionMessages {
	return &SessionMessages{session: session}
}

func (s *SessionMessages) FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, bool) {
	message, err := s.session.State.Message(channelID, messageID)
	if err == nil && message != nil {
		return message, true
	}

	message, err = s.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil || message == nil {
		return nil, false
	}
	return message, true
}

// SessionSender posts through the session
type SessionSender struct {
	session *discordgo.Session
}

func NewSessionSender(session *discordgo.Session) *SessionSender {
	return &SessionSender{session: session}
}

func (s *SessionSender) SendPost(ctx context.Context, channelID string, send *discordgo.MessageSend) (*discordgo.Message, error) {
	return s.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
}

func (s *SessionSender) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return s.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (s *SessionSender) EditPost(ctx context.Context, channelID, messageID, content string) error {
	_, err := s.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	return err
}

// MentionAuthorExtractor guesses the author of a snipe embed from the ids it mentions:
// the footer first, log services put the author id there, then the author link and the description
type MentionAuthorExtractor struct{}

func (MentionAuthorExtractor) ExtractLikelyAuthor(msg *discordgo.Message) (string, bool) {
	if msg == nil || len(msg.Embeds) <= 0 || msg.Embeds[0] == nil {
		return "", false
	}
	embed := msg.Embeds[0]

	if embed.Footer != nil {
		if parts := helpers.SnowflakeRegex.FindStringSubmatch(embed.Footer.Text); len(parts) == 2 {
			return parts[1], true
		}
	}
	if embed.Author != nil {
		if parts := helpers.SnowflakeRegex.FindStringSubmatch(embed.Author.URL); len(parts) == 2 {
			return parts[1], true
		}
	}
	if parts := helpers.UserRegexStrict.FindStringSubmatch(embed.Description); len(parts) == 2 {
		return parts[1], true
	}
	return "", false
}
