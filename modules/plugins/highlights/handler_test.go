package highlights

import (
	"context"
	"sync"
	"testing"

	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(settings models.Config) (*Handler, *fakeSender) {
	store := NewMemoryStore()
	sender := &fakeSender{}
	renderer := testRenderer()
	renderer.Store = store

	return &Handler{
		store:     store,
		renderer:  renderer,
		publisher: NewPublisher(store, sender, testLogger()),
		settings: func(guildID string) models.Config {
			return settings
		},
		log: testLogger(),
	}, sender
}

func TestSetStar(t *testing.T) {
	entry := &models.StarEntry{}

	assert.True(t, setStar(entry, "1", true))
	assert.False(t, setStar(entry, "1", true))
	assert.True(t, setStar(entry, "2", true))
	assert.Equal(t, 2, entry.UniqueStarCount)

	assert.True(t, setStar(entry, "1", false))
	assert.False(t, setStar(entry, "1", false))
	assert.Equal(t, []string{"2"}, entry.StarUserIDs)
	assert.Equal(t, 1, entry.UniqueStarCount)
}

func TestApplyStarPublishesAtMinimum(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 2})
	source := userMessage("hello")
	ctx := context.Background()

	require.NoError(t, handler.applyStar(ctx, source, "1", true))
	assert.Empty(t, sender.posts)

	// starring twice counts once
	require.NoError(t, handler.applyStar(ctx, source, "1", true))
	assert.Empty(t, sender.posts)

	require.NoError(t, handler.applyStar(ctx, source, "2", true))
	require.Len(t, sender.posts, 1)
	assert.Equal(t, "⭐ **2** | <#"+testChannelID+">", sender.posts[0].Send.Content)
	require.Len(t, sender.posts[0].Send.Embeds, 1)
	assert.Equal(t, "hello", sender.posts[0].Send.Embeds[0].Description)

	// later changes edit the same post
	require.NoError(t, handler.applyStar(ctx, source, "3", true))
	require.NoError(t, handler.applyStar(ctx, source, "1", false))
	assert.Len(t, sender.posts, 1)
	require.Len(t, sender.edits, 2)
	assert.Equal(t, "⭐ **3** | <#"+testChannelID+">", sender.edits[0].Content)
	assert.Equal(t, "⭐ **2** | <#"+testChannelID+">", sender.edits[1].Content)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, entry.StarUserIDs)
	assert.Equal(t, sender.posts[0].ChannelID, entry.StarboardID)
}

func TestApplyStarWithoutChannel(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightMinimum: 1})
	source := userMessage("hello")

	require.NoError(t, handler.applyStar(context.Background(), source, "1", true))
	assert.Empty(t, sender.posts)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.UniqueStarCount)
	assert.False(t, entry.Published())
}

func TestApplyStarRemoveUnknown(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID})

	require.NoError(t, handler.applyStar(context.Background(), userMessage("hello"), "1", false))
	assert.Empty(t, sender.posts)

	_, err := handler.store.Get(testGuildID, "500000000000000005")
	assert.Equal(t, ErrEntryNotFound, err)
}

func TestApplyStarConcurrent(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 1})
	source := userMessage("hello")

	var wg sync.WaitGroup
	for _, userID := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			assert.NoError(t, handler.applyStar(context.Background(), source, userID, true))
		}(userID)
	}
	wg.Wait()

	assert.Len(t, sender.posts, 1)
	assert.Len(t, sender.edits, 7)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, entry.UniqueStarCount)
}

func TestApplyStarCreditsSnipedUser(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 1})
	handler.renderer.Identities = fakeIdentities{
		"999999999999999999": {DisplayName: "Victim", Tag: "victim"},
		"270904126974590976": {DisplayName: "LogBot", Tag: "logbot"},
	}
	handler.renderer.Authors = fakeAuthors{authorID: "999999999999999999"}
	source := snipeMessage()
	ctx := context.Background()

	// the sniped user can't star their own message
	require.NoError(t, handler.applyStar(ctx, source, "999999999999999999", true))
	assert.Empty(t, sender.posts)

	require.NoError(t, handler.applyStar(ctx, source, "1", true))
	require.Len(t, sender.posts, 1)
	require.Len(t, sender.posts[0].Send.Embeds, 1)
	assert.Equal(t, "Victim (victim)", sender.posts[0].Send.Embeds[0].Author.Name)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "999999999999999999", entry.AuthorID)
	assert.Equal(t, []string{"1"}, entry.StarUserIDs)
}

func TestApplyStarOnCopyCountsForSource(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 1})
	source := userMessage("hello")
	ctx := context.Background()

	require.NoError(t, handler.applyStar(ctx, source, "1", true))
	require.Len(t, sender.posts, 1)

	highlight := &discordgo.Message{
		ID:        "post-1",
		GuildID:   testGuildID,
		ChannelID: testHighlightChannelID,
		Content:   sender.posts[0].Send.Content,
		Embeds:    sender.posts[0].Send.Embeds,
		Author:    &discordgo.User{ID: testSelfID, Username: testSelfName, Bot: true},
	}

	require.NoError(t, handler.applyStar(ctx, highlight, "2", true))
	assert.Len(t, sender.posts, 1)
	require.Len(t, sender.edits, 1)
	assert.Equal(t, "post-1", sender.edits[0].MessageID)
	assert.Equal(t, "⭐ **2** | <#"+testChannelID+">", sender.edits[0].Content)

	// already counted on the source
	require.NoError(t, handler.applyStar(ctx, highlight, "1", true))
	// the author can't star the copy of their own message
	require.NoError(t, handler.applyStar(ctx, highlight, source.Author.ID, true))
	assert.Len(t, sender.edits, 1)

	require.NoError(t, handler.applyStar(ctx, highlight, "2", false))
	require.Len(t, sender.edits, 2)
	assert.Equal(t, "⭐ **1** | <#"+testChannelID+">", sender.edits[1].Content)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, entry.StarUserIDs)

	_, err = handler.store.Get(testGuildID, highlight.ID)
	assert.Equal(t, ErrEntryNotFound, err)
}

func TestApplyStarIgnoresUnknownCopy(t *testing.T) {
	handler, sender := testHandler(models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 1})
	highlight := &discordgo.Message{
		ID:        "post-9",
		GuildID:   testGuildID,
		ChannelID: testHighlightChannelID,
		Content:   "⭐ **3** | <#" + testChannelID + ">",
		Author:    &discordgo.User{ID: testSelfID, Username: testSelfName, Bot: true},
	}

	require.NoError(t, handler.applyStar(context.Background(), highlight, "1", true))
	assert.Empty(t, sender.posts)

	_, err := handler.store.Get(testGuildID, highlight.ID)
	assert.Equal(t, ErrEntryNotFound, err)
}

func TestForce(t *testing.T) {
	settings := models.Config{HighlightChannelID: testHighlightChannelID, HighlightMinimum: 5}
	handler, sender := testHandler(settings)
	source := userMessage("hello")

	require.NoError(t, handler.applyStar(context.Background(), source, "1", true))

	posted, err := handler.force(context.Background(), source, settings)
	require.NoError(t, err)
	require.Len(t, sender.posts, 1)
	assert.Equal(t, "⭐ **1** | <#"+testChannelID+"> (Forced Entry)", sender.posts[0].Send.Content)

	_, err = handler.force(context.Background(), source, settings)
	assert.Equal(t, ErrAlreadyPublished, err)

	entry, err := handler.store.Get(testGuildID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, posted.ID, entry.StarVarID)
	assert.True(t, entry.Forced)

	// stars on a forced highlight keep the suffix
	require.NoError(t, handler.applyStar(context.Background(), source, "2", true))
	require.Len(t, sender.edits, 1)
	assert.Equal(t, "⭐ **2** | <#"+testChannelID+"> (Forced Entry)", sender.edits[0].Content)
}

func TestMinimumStars(t *testing.T) {
	assert.Equal(t, 1, minimumStars(models.Config{}))
	assert.Equal(t, 4, minimumStars(models.Config{HighlightMinimum: 4}))
}
