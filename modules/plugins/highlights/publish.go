package highlights

import (
	"context"
	"fmt"
	"time"

	"github.com/Seklfreak/highlights/emojis"
	"github.com/Seklfreak/highlights/metrics"
	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const forcedEntrySuffix = " (Forced Entry)"

// ErrAlreadyPublished is returned by Publish if the message already has a highlight
var ErrAlreadyPublished = errors.New("message has already been highlighted")

// Sender writes to the chat platform
type Sender interface {
	SendPost(ctx context.Context, channelID string, send *discordgo.MessageSend) (*discordgo.Message, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	EditPost(ctx context.Context, channelID, messageID, content string) error
}

// PublishRequest is everything needed to post a highlight
type PublishRequest struct {
	Source      *discordgo.Message
	Embed       *discordgo.MessageEmbed
	UniqueStars int
	Forced      bool

	// AuthorID is the user credited in a new entry, the poster of Source if empty
	AuthorID string

	// ChannelID is the highlight channel of the source guild, empty if none is configured
	ChannelID string
}

// Publisher posts rendered highlights and records them in the store
type Publisher struct {
	store  Store
	sender Sender
	locks  *keyedLocks
	log    *logrus.Entry
}

func NewPublisher(store Store, sender Sender, log *logrus.Entry) *Publisher {
	return &Publisher{
		store:  store,
		sender: sender,
		locks:  newKeyedLocks(),
		log:    log,
	}
}

// Lock serializes work on the entry of one source message, callers doing a read, modify,
// write of an entry hold it around the whole sequence
func (p *Publisher) Lock(messageID string) (unlock func()) {
	return p.locks.Lock(messageID)
}

// StatusLine returns the text posted above a highlight
func StatusLine(uniqueStars int, originChannelID string, forced bool) string {
	line := fmt.Sprintf("%s **%d** | <#%s>", emojis.ForStars(uniqueStars), uniqueStars, originChannelID)
	if forced {
		line += forcedEntrySuffix
	}
	return line
}

// Publish sends the highlight, reacts to it and stores where it has been posted.
// If no highlight channel is configured it does nothing and returns nil, nil.
// A message is published at most once, later changes go through Refresh.
// The caller must hold Lock(req.Source.ID).
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (*discordgo.Message, error) {
	if req.ChannelID == "" {
		return nil, nil
	}
	if req.Source == nil || req.Embed == nil {
		return nil, errors.New("nothing to publish")
	}

	entry, err := p.store.Get(req.Source.GuildID, req.Source.ID)
	if err == ErrEntryNotFound {
		entry = newEntry(req.Source, req.AuthorID)
	} else if err != nil {
		return nil, errors.Wrap(err, "reading starboard entry failed")
	}
	if entry.Published() {
		return nil, ErrAlreadyPublished
	}

	posted, err := p.sender.SendPost(ctx, req.ChannelID, &discordgo.MessageSend{
		Content: StatusLine(req.UniqueStars, req.Source.ChannelID, req.Forced),
		Embeds:  []*discordgo.MessageEmbed{req.Embed},
	})
	if err != nil {
		return nil, errors.Wrap(err, "sending highlight failed")
	}
	if posted == nil {
		return nil, errors.New("sending highlight failed")
	}
	metrics.HighlightsPublished.Add(1)

	postChannelID := posted.ChannelID
	if postChannelID == "" {
		postChannelID = req.ChannelID
	}

	// the post exists at this point, a missing reaction must not lose track of it
	err = p.sender.AddReaction(ctx, postChannelID, posted.ID, emojis.Star)
	if err != nil {
		p.log.WithField("highlightID", posted.ID).Warn("adding star to highlight failed: ", err.Error())
	}

	entry.StarVarID = posted.ID
	entry.StarboardID = postChannelID
	entry.Forced = req.Forced
	if req.UniqueStars > entry.UniqueStarCount {
		entry.UniqueStarCount = req.UniqueStars
	}

	err = p.store.Put(entry)
	if err != nil {
		return posted, errors.Wrap(err, "storing starboard entry failed")
	}

	p.log.WithField("guildID", req.Source.GuildID).WithField("messageID", req.Source.ID).
		WithField("highlightID", posted.ID).WithField("forced", req.Forced).
		Info("published highlight")
	return posted, nil
}

// Refresh updates the status line of an already published highlight.
// The caller must hold Lock(entry.MessageID).
func (p *Publisher) Refresh(ctx context.Context, entry *models.StarEntry) error {
	if entry == nil || !entry.Published() {
		return errors.New("starboard entry has not been published")
	}

	err := p.sender.EditPost(ctx, entry.StarboardID, entry.StarVarID,
		StatusLine(entry.UniqueStarCount, entry.ChannelID, entry.Forced))
	if err != nil {
		return errors.Wrap(err, "updating highlight failed")
	}
	metrics.HighlightsRefreshed.Add(1)
	return nil
}

// newEntry returns the entry of a message that has never been starred, crediting $authorID
// or the poster of $source if it is empty
func newEntry(source *discordgo.Message, authorID string) *models.StarEntry {
	entry := &models.StarEntry{
		GuildID:      source.GuildID,
		MessageID:    source.ID,
		ChannelID:    source.ChannelID,
		AuthorID:     authorID,
		StarUserIDs:  []string{},
		FirstStarred: time.Now(),
	}
	if entry.AuthorID == "" && source.Author != nil {
		entry.AuthorID = source.Author.ID
	}
	return entry
}
