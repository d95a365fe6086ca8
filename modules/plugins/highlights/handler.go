package highlights

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/emojis"
	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

type highlightsAction func(args []string, in *discordgo.Message, out **discordgo.MessageSend) (next highlightsAction)

const (
	eventTimeout        = 30 * time.Second
	probeCacheDuration  = 24 * time.Hour
	defaultProbeTimeout = 5
)

// Handler posts messages into the highlight channel of a guild once they have enough stars
type Handler struct {
	store     Store
	renderer  *Renderer
	publisher *Publisher
	settings  func(guildID string) models.Config
	log       *logrus.Entry
}

func (h *Handler) Commands() []string {
	return []string{
		"highlight",
		"hl",
	}
}

func (h *Handler) Init(session *discordgo.Session) {
	h.log = cache.GetLogger().WithField("module", "highlights")
	h.settings = helpers.GuildSettingsGetCached

	if helpers.HasMDb() {
		h.store = NewMongoStore()
	} else {
		h.log.Warn("no mongodb configured, highlights are kept in memory")
		h.store = NewMemoryStore()
	}

	probeTimeout := helpers.ConfigInt("highlights.probe_timeout_seconds", defaultProbeTimeout)
	var prober ImageProber = NewHTTPProber(
		helpers.NewHTTPClient(time.Duration(probeTimeout)*time.Second, 2),
		helpers.DEFAULT_UA,
		h.log,
	)
	if cache.HasRedisClient() {
		prober = NewCachedProber(cache.GetRedisCacheCodec(), prober, probeCacheDuration, h.log)
	}

	snipeAuthorIDs := helpers.ConfigStrings("highlights.snipe_author_ids")
	if len(snipeAuthorIDs) <= 0 {
		snipeAuthorIDs = DefaultSnipeAuthorIDs
	}

	classifier := Classifier{SnipeAuthorIDs: snipeAuthorIDs}
	if session.State != nil && session.State.User != nil {
		classifier.SelfID = session.State.User.ID
		classifier.SelfName = session.State.User.Username
	}

	h.renderer = &Renderer{
		Classifier: classifier,
		Store:      h.store,
		Identities: NewSessionIdentities(session),
		Messages:   NewSessionMessages(session),
		Authors:    MentionAuthorExtractor{},
		Prober:     prober,
		Extensions: func(guildID string) []string {
			return h.settings(guildID).ImageExtensions
		},
		Log: h.log,
	}
	h.publisher = NewPublisher(h.store, NewSessionSender(session), h.log)
}

func (h *Handler) Action(command string, content string, msg *discordgo.Message, session *discordgo.Session) {
	session.ChannelTyping(msg.ChannelID)

	var result *discordgo.MessageSend
	args := strings.Fields(content)

	action := h.actionStart
	for action != nil {
		action = action(args, msg, &result)
	}
}

func (h *Handler) actionStart(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	if len(args) < 1 {
		*out = h.newMsg("bot.arguments.too-few")
		return h.actionFinish
	}

	switch args[0] {
	case "set":
		return h.actionSet
	case "minimum", "min":
		return h.actionMinimum
	case "status":
		return h.actionStatus
	case "force":
		return h.actionForce
	case "preview":
		return h.actionPreview
	}

	*out = h.newMsg("bot.arguments.invalid")
	return h.actionFinish
}

func (h *Handler) actionStatus(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	settings := h.settings(in.GuildID)

	if settings.HighlightChannelID != "" {
		*out = h.newMsg(helpers.GetTextF("plugins.highlights.status-set",
			settings.HighlightChannelID, humanize.Comma(int64(minimumStars(settings)))))
	} else {
		*out = h.newMsg("plugins.highlights.status-none")
	}
	return h.actionFinish
}

func (h *Handler) actionSet(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	if !helpers.IsMod(in) {
		*out = h.newMsg("mod.no_permission")
		return h.actionFinish
	}

	settings := h.settings(in.GuildID)

	if len(args) < 2 {
		if settings.HighlightChannelID == "" {
			*out = h.newMsg("plugins.highlights.status-none")
			return h.actionFinish
		}

		settings.HighlightChannelID = ""
		err := helpers.GuildSettingsSet(in.GuildID, settings)
		helpers.Relax(err)

		*out = h.newMsg("plugins.highlights.reset-success")
		return h.actionFinish
	}

	targetChannel, err := helpers.GetChannelFromMention(in.GuildID, args[1])
	if err != nil {
		*out = h.newMsg("bot.arguments.invalid")
		return h.actionFinish
	}

	settings.HighlightChannelID = targetChannel.ID
	err = helpers.GuildSettingsSet(in.GuildID, settings)
	helpers.Relax(err)

	*out = h.newMsg(helpers.GetTextF("plugins.highlights.set-success", settings.HighlightChannelID))
	return h.actionFinish
}

func (h *Handler) actionMinimum(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	if !helpers.IsMod(in) {
		*out = h.newMsg("mod.no_permission")
		return h.actionFinish
	}

	if len(args) < 2 {
		*out = h.newMsg("bot.arguments.too-few")
		return h.actionFinish
	}

	newMinimum, err := strconv.Atoi(args[1])
	if err != nil || newMinimum < 1 {
		*out = h.newMsg("bot.arguments.invalid")
		return h.actionFinish
	}

	settings := h.settings(in.GuildID)
	settings.HighlightMinimum = newMinimum
	err = helpers.GuildSettingsSet(in.GuildID, settings)
	helpers.Relax(err)

	*out = h.newMsg(helpers.GetTextF("plugins.highlights.minimum-success", settings.HighlightMinimum))
	return h.actionFinish
}

func (h *Handler) actionForce(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	if !helpers.IsMod(in) {
		*out = h.newMsg("mod.no_permission")
		return h.actionFinish
	}

	settings := h.settings(in.GuildID)
	if settings.HighlightChannelID == "" {
		*out = h.newMsg("plugins.highlights.force-no-channel")
		return h.actionFinish
	}

	source := h.referencedMessage(args[1:], in)
	if source == nil {
		*out = h.newMsg("plugins.highlights.message-not-found")
		return h.actionFinish
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	_, err := h.force(ctx, source, settings)
	if err == ErrAlreadyPublished {
		*out = h.newMsg(helpers.GetTextF("plugins.highlights.force-already", settings.HighlightChannelID))
		return h.actionFinish
	}
	helpers.Relax(err)

	*out = h.newMsg(helpers.GetTextF("plugins.highlights.force-success", settings.HighlightChannelID))
	return h.actionFinish
}

func (h *Handler) actionPreview(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	source := h.referencedMessage(args[1:], in)
	if source == nil {
		*out = h.newMsg("plugins.highlights.message-not-found")
		return h.actionFinish
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	embed, err := h.renderer.RenderPost(ctx, source)
	helpers.Relax(err)

	*out = &discordgo.MessageSend{
		Content: StatusLine(0, source.ChannelID, false),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
	return h.actionFinish
}

func (h *Handler) actionFinish(args []string, in *discordgo.Message, out **discordgo.MessageSend) highlightsAction {
	_, err := cache.GetSession().ChannelMessageSendComplex(in.ChannelID, *out)
	helpers.RelaxMessage(err)

	return nil
}

// referencedMessage returns the message linked in $args, it has to be from the guild of $in
func (h *Handler) referencedMessage(args []string, in *discordgo.Message) *discordgo.Message {
	channelID, messageID, err := helpers.ParseMessageReference(args, in.ChannelID)
	if err != nil {
		return nil
	}

	channel, err := helpers.GetChannel(channelID)
	if err != nil || channel.GuildID != in.GuildID {
		return nil
	}

	message, err := helpers.GetMessage(channelID, messageID)
	if err != nil {
		return nil
	}
	if message.GuildID == "" {
		message.GuildID = channel.GuildID
	}
	return message
}

// force publishes $source regardless of its stars
func (h *Handler) force(ctx context.Context, source *discordgo.Message, settings models.Config) (*discordgo.Message, error) {
	unlock := h.publisher.Lock(source.ID)
	defer unlock()

	stars := 0
	entry, err := h.store.Get(source.GuildID, source.ID)
	if err == nil {
		if entry.Published() {
			return nil, ErrAlreadyPublished
		}
		stars = entry.UniqueStarCount
	} else if err != ErrEntryNotFound {
		return nil, err
	}

	embed, err := h.renderer.RenderPost(ctx, source)
	if err != nil {
		return nil, err
	}

	return h.publisher.Publish(ctx, PublishRequest{
		Source:      source,
		Embed:       embed,
		UniqueStars: stars,
		Forced:      true,
		AuthorID:    h.renderer.AuthorID(source),
		ChannelID:   settings.HighlightChannelID,
	})
}

// applyStar records that $userID starred or unstarred $source. The first time the count reaches
// the minimum of the guild the message gets published, counts of published messages are refreshed.
// Stars on a published copy count for its source message.
func (h *Handler) applyStar(ctx context.Context, source *discordgo.Message, userID string, starred bool) error {
	published, err := h.store.GetByStarVar(source.GuildID, source.ID)
	if err == nil {
		return h.applyStarToCopy(ctx, published, userID, starred)
	}
	if err != ErrEntryNotFound {
		return err
	}

	settings := h.settings(source.GuildID)

	// stop if it's one of our posts in the highlight channel
	if h.renderer.Classifier.isSelf(source) && source.ChannelID == settings.HighlightChannelID {
		return nil
	}

	unlock := h.publisher.Lock(source.ID)
	defer unlock()

	entry, err := h.store.Get(source.GuildID, source.ID)
	if err == ErrEntryNotFound {
		if !starred {
			return nil
		}
		entry = newEntry(source, h.renderer.AuthorID(source))
	} else if err != nil {
		return err
	}

	// stop if user is starring a snipe of their own message
	if entry.AuthorID == userID {
		return nil
	}

	if !setStar(entry, userID, starred) {
		return nil
	}

	err = h.store.Put(entry)
	if err != nil {
		return err
	}

	if entry.Published() {
		return h.publisher.Refresh(ctx, entry)
	}

	if settings.HighlightChannelID == "" || entry.UniqueStarCount < minimumStars(settings) {
		return nil
	}

	embed, err := h.renderer.RenderPost(ctx, source)
	if err != nil {
		return err
	}

	_, err = h.publisher.Publish(ctx, PublishRequest{
		Source:      source,
		Embed:       embed,
		UniqueStars: entry.UniqueStarCount,
		AuthorID:    entry.AuthorID,
		ChannelID:   settings.HighlightChannelID,
	})
	if err == ErrAlreadyPublished {
		return nil
	}
	return err
}

// applyStarToCopy records a star on the published copy of $published on its source entry
func (h *Handler) applyStarToCopy(ctx context.Context, published *models.StarEntry, userID string, starred bool) error {
	// stop if user is starring the copy of their own message
	if published.AuthorID == userID {
		return nil
	}

	unlock := h.publisher.Lock(published.MessageID)
	defer unlock()

	entry, err := h.store.Get(published.GuildID, published.MessageID)
	if err != nil {
		return err
	}

	if !setStar(entry, userID, starred) {
		return nil
	}

	err = h.store.Put(entry)
	if err != nil {
		return err
	}
	return h.publisher.Refresh(ctx, entry)
}

func (h *Handler) OnReactionAdd(reaction *discordgo.MessageReactionAdd, session *discordgo.Session) {
	if reaction == nil || reaction.MessageReaction == nil {
		return
	}
	go h.onReaction(reaction.MessageReaction, true, session)
}

func (h *Handler) OnReactionRemove(reaction *discordgo.MessageReactionRemove, session *discordgo.Session) {
	if reaction == nil || reaction.MessageReaction == nil {
		return
	}
	go h.onReaction(reaction.MessageReaction, false, session)
}

func (h *Handler) onReaction(reaction *discordgo.MessageReaction, starred bool, session *discordgo.Session) {
	defer helpers.Recover()

	// stop if no star or no guild
	if !emojis.IsStar(reaction.Emoji.Name) || reaction.GuildID == "" {
		return
	}

	user, err := helpers.GetUser(reaction.UserID)
	helpers.Relax(err)

	// stop if reaction is by a bot
	if user.Bot {
		return
	}

	message, err := helpers.GetMessage(reaction.ChannelID, reaction.MessageID)
	if err != nil {
		h.log.WithField("channelID", reaction.ChannelID).WithField("messageID", reaction.MessageID).
			Debug("fetching starred message failed: ", err.Error())
		return
	}
	if message.GuildID == "" {
		message.GuildID = reaction.GuildID
	}

	// stop if user is reacting to own message
	if message.Author == nil || message.Author.ID == reaction.UserID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	err = h.applyStar(ctx, message, reaction.UserID, starred)
	if err != nil {
		h.log.WithField("guildID", reaction.GuildID).WithField("messageID", reaction.MessageID).
			Error("updating highlight failed: ", err.Error())
	}
}

func (h *Handler) newMsg(content string) *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: helpers.GetText(content)}
}

// setStar adds or removes $userID from the starrers of $entry, returns false if nothing changed
func setStar(entry *models.StarEntry, userID string, starred bool) bool {
	for i, starUserID := range entry.StarUserIDs {
		if starUserID != userID {
			continue
		}
		if starred {
			return false
		}
		entry.StarUserIDs = append(entry.StarUserIDs[:i], entry.StarUserIDs[i+1:]...)
		entry.UniqueStarCount = len(entry.StarUserIDs)
		return true
	}

	if !starred {
		return false
	}
	entry.StarUserIDs = append(entry.StarUserIDs, userID)
	entry.UniqueStarCount = len(entry.StarUserIDs)
	return true
}

func minimumStars(settings models.Config) int {
	if settings.HighlightMinimum < 1 {
		return 1
	}
	return settings.HighlightMinimum
}
