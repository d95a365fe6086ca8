package highlights

import (
	"context"
	"fmt"
	"time"

	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/metrics"
	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AccentColor is the color of every highlight embed
const AccentColor = 0xcfca76

const (
	originalFieldName = "Original"
	snipeTitle        = "Sniped:"
	avatarSize        = "128"
)

// Identity is how a user is shown as the author of a highlight
type Identity struct {
	DisplayName string
	Tag         string
	AvatarURL   string
}

// Label returns "display name (tag)", or only the tag if both are the same
func (i Identity) Label() string {
	if i.DisplayName == "" || i.DisplayName == i.Tag {
		return i.Tag
	}
	if i.Tag == "" {
		return i.DisplayName
	}
	return fmt.Sprintf("%s (%s)", i.DisplayName, i.Tag)
}

// IdentityResolver resolves a user id in the context of a guild
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, guildID, userID string) (*Identity, bool)
}

// MessageFetcher fetches a message, false means it couldn't be fetched for whatever reason
type MessageFetcher interface {
	FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, bool)
}

// AuthorExtractor guesses the id of the user a snipe embed is about
type AuthorExtractor interface {
	ExtractLikelyAuthor(msg *discordgo.Message) (string, bool)
}

// ContentNormalizer returns the text of a message as it should be shown in the highlight
type ContentNormalizer func(msg *discordgo.Message) string

// ExtensionsFunc returns the image file extensions configured for a guild
type ExtensionsFunc func(guildID string) []string

// Renderer builds the embed representing a message in the highlight channel
type Renderer struct {
	Classifier Classifier
	Store      Store
	Identities IdentityResolver
	Messages   MessageFetcher
	Authors    AuthorExtractor
	Prober     ImageProber
	Normalize  ContentNormalizer
	Extensions ExtensionsFunc
	Log        *logrus.Entry
}

// Render returns a new embed for $msg
func (r *Renderer) Render(ctx context.Context, msg *discordgo.Message) (*discordgo.MessageEmbed, error) {
	if msg == nil {
		return nil, errors.New("no message to render")
	}

	var embed *discordgo.MessageEmbed
	var err error

	switch kind := r.Classifier.Classify(msg); kind {
	case KindPinboardReplica:
		embed = r.renderPinboardReplica(msg)
	case KindSnipeReplica:
		embed, err = r.renderSnipeReplica(ctx, msg)
	case KindGenericRichEmbed:
		embed = r.renderGenericRichEmbed(msg)
	case KindDefault:
		embed = r.renderDefault(ctx, msg)
	default:
		return nil, errors.Errorf("unknown message kind %d", kind)
	}
	if err != nil {
		return nil, err
	}

	metrics.HighlightsRendered.Add(1)
	return embed, nil
}

// RenderPost renders $msg for publishing: a jump link to the original and its id in the footer
func (r *Renderer) RenderPost(ctx context.Context, msg *discordgo.Message) (*discordgo.MessageEmbed, error) {
	embed, err := r.Render(ctx, msg)
	if err != nil {
		return nil, err
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   originalFieldName,
		Value:  fmt.Sprintf("[Jump](%s)", helpers.MessageLink(msg.GuildID, msg.ChannelID, msg.ID)),
		Inline: true,
	})
	embed.Footer = &discordgo.MessageEmbedFooter{Text: replicaFooterPrefix + " " + msg.ID}
	return embed, nil
}

func (r *Renderer) renderPinboardReplica(msg *discordgo.Message) *discordgo.MessageEmbed {
	embed := copyEmbed(msg.Embeds[0])

	for i, field := range embed.Fields {
		if field != nil && field.Name == originalFieldName {
			embed.Fields = append(embed.Fields[:i], embed.Fields[i+1:]...)
			break
		}
	}

	embed.Color = AccentColor
	embed.Timestamp = timestamp(msg)
	embed.Footer = nil
	return embed
}

func (r *Renderer) renderSnipeReplica(ctx context.Context, msg *discordgo.Message) (*discordgo.MessageEmbed, error) {
	snipe := msg.Embeds[0]

	authorID, err := r.snipeAuthorID(msg)
	if err != nil {
		return nil, err
	}

	var identity *Identity
	if authorID != "" && r.Identities != nil {
		identity, _ = r.Identities.ResolveIdentity(ctx, msg.GuildID, authorID)
	}

	author := &discordgo.MessageEmbedAuthor{Name: embedAuthorName(snipe)}
	if snipe.Author != nil {
		author.IconURL = snipe.Author.IconURL
	}
	if identity != nil {
		author.Name = identity.Label()
		author.IconURL = identity.AvatarURL
	}

	return &discordgo.MessageEmbed{
		Title:       snipeTitle,
		Description: snipe.Description,
		Color:       AccentColor,
		Timestamp:   timestamp(msg),
		Author:      author,
	}, nil
}

// snipeAuthorID prefers the author recorded in the store over the extractor's guess.
// A recorded author equal to the poster of the snipe is the log service itself and is skipped.
func (r *Renderer) snipeAuthorID(msg *discordgo.Message) (string, error) {
	if r.Store != nil {
		entry, err := r.Store.Get(msg.GuildID, msg.ID)
		if err == nil && entry.AuthorID != "" && (msg.Author == nil || entry.AuthorID != msg.Author.ID) {
			return entry.AuthorID, nil
		}
		if err != nil && err != ErrEntryNotFound {
			return "", errors.Wrap(err, "looking up snipe author failed")
		}
	}

	return r.likelyAuthorID(msg), nil
}

func (r *Renderer) likelyAuthorID(msg *discordgo.Message) string {
	if r.Authors == nil {
		return ""
	}
	authorID, _ := r.Authors.ExtractLikelyAuthor(msg)
	return authorID
}

// AuthorID returns the user to credit for $msg: the poster, or for snipes the user the snipe is about
func (r *Renderer) AuthorID(msg *discordgo.Message) string {
	if r.Classifier.Classify(msg) == KindSnipeReplica {
		return r.likelyAuthorID(msg)
	}
	if msg.Author == nil {
		return ""
	}
	return msg.Author.ID
}

func (r *Renderer) renderGenericRichEmbed(msg *discordgo.Message) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: richEmbedWithDescription(msg).Description,
		Color:       AccentColor,
		Timestamp:   timestamp(msg),
		Author:      messageAuthor(msg),
	}
}

func (r *Renderer) renderDefault(ctx context.Context, msg *discordgo.Message) *discordgo.MessageEmbed {
	content := r.content(msg)

	embed := &discordgo.MessageEmbed{
		Description: content,
		Color:       AccentColor,
		Timestamp:   timestamp(msg),
		Author:      messageAuthor(msg),
	}

	if isOrdinary(msg) && msg.MessageReference != nil {
		embed.Title, embed.URL = r.replyContext(ctx, msg)
	}

	resolution := resolveImage(ctx, msg, content, r.extensions(msg.GuildID), r.Prober)
	embed.Fields = append(embed.Fields, resolution.Fields...)
	if resolution.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: resolution.ImageURL}
	}

	return embed
}

func (r *Renderer) content(msg *discordgo.Message) string {
	if r.Normalize != nil {
		return r.Normalize(msg)
	}
	return msg.ContentWithMentionsReplaced()
}

func (r *Renderer) extensions(guildID string) []string {
	if r.Extensions != nil {
		if extensions := r.Extensions(guildID); len(extensions) > 0 {
			return extensions
		}
	}
	return models.DefaultImageExtensions
}

func (r *Renderer) logger() *logrus.Entry {
	if r.Log != nil {
		return r.Log
	}
	return logrus.NewEntry(logrus.StandardLogger()).WithField("module", "highlights")
}

// isOrdinary returns true for messages written by users, as opposed to join or pin notices
func isOrdinary(msg *discordgo.Message) bool {
	return msg.Type == discordgo.MessageTypeDefault || msg.Type == discordgo.MessageTypeReply
}

func timestamp(msg *discordgo.Message) string {
	if msg.Timestamp.IsZero() {
		return ""
	}
	return msg.Timestamp.UTC().Format(time.RFC3339)
}

func messageIdentity(msg *discordgo.Message) Identity {
	if msg.Author == nil {
		return Identity{}
	}
	return Identity{
		DisplayName: helpers.DisplayName(msg.Member, msg.Author),
		Tag:         helpers.UserTag(msg.Author),
		AvatarURL:   msg.Author.AvatarURL(avatarSize),
	}
}

func messageAuthor(msg *discordgo.Message) *discordgo.MessageEmbedAuthor {
	identity := messageIdentity(msg)
	return &discordgo.MessageEmbedAuthor{
		Name:    identity.Label(),
		IconURL: identity.AvatarURL,
	}
}

// copyEmbed copies $embed so that changing the copy never touches the source message
func copyEmbed(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	duplicate := *embed

	if embed.Footer != nil {
		footer := *embed.Footer
		duplicate.Footer = &footer
	}
	if embed.Image != nil {
		image := *embed.Image
		duplicate.Image = &image
	}
	if embed.Thumbnail != nil {
		thumbnail := *embed.Thumbnail
		duplicate.Thumbnail = &thumbnail
	}
	if embed.Video != nil {
		video := *embed.Video
		duplicate.Video = &video
	}
	if embed.Provider != nil {
		provider := *embed.Provider
		duplicate.Provider = &provider
	}
	if embed.Author != nil {
		author := *embed.Author
		duplicate.Author = &author
	}

	duplicate.Fields = make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, field := range embed.Fields {
		if field == nil {
			continue
		}
		fieldCopy := *field
		duplicate.Fields = append(duplicate.Fields, &fieldCopy)
	}
	return &duplicate
}
