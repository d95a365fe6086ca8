package highlights

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	testSelfID    = "100000000000000001"
	testSelfName  = "Highlights"
	testGuildID   = "200000000000000002"
	testChannelID = "300000000000000003"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.Out = ioutil.Discard
	return logrus.NewEntry(log)
}

func testClassifier() Classifier {
	return Classifier{
		SelfID:         testSelfID,
		SelfName:       testSelfName,
		SnipeAuthorIDs: DefaultSnipeAuthorIDs,
	}
}

type fakeIdentities map[string]*Identity

func (f fakeIdentities) ResolveIdentity(ctx context.Context, guildID, userID string) (*Identity, bool) {
	identity, ok := f[userID]
	return identity, ok
}

type fakeMessages struct {
	messages map[string]*discordgo.Message
	calls    int
}

func (f *fakeMessages) FetchMessage(ctx context.Context, channelID, messageID string) (*discordgo.Message, bool) {
	f.calls++
	message, ok := f.messages[channelID+"/"+messageID]
	return message, ok
}

type fakeAuthors struct {
	authorID string
}

func (f fakeAuthors) ExtractLikelyAuthor(msg *discordgo.Message) (string, bool) {
	return f.authorID, f.authorID != ""
}

type fakeProber struct {
	images map[string]bool
	calls  []string
}

func (f *fakeProber) ProbeImage(ctx context.Context, link string) (string, bool) {
	f.calls = append(f.calls, link)
	if f.images[link] {
		return link, true
	}
	return "", false
}

type sentPost struct {
	ChannelID string
	Send      *discordgo.MessageSend
}

type sentReaction struct {
	ChannelID string
	MessageID string
	Emoji     string
}

type edit struct {
	ChannelID string
	MessageID string
	Content   string
}

type fakeSender struct {
	sync.Mutex

	posts       []sentPost
	reactions   []sentReaction
	edits       []edit
	nextID      int
	sendErr     error
	reactionErr error
}

func (f *fakeSender) SendPost(ctx context.Context, channelID string, send *discordgo.MessageSend) (*discordgo.Message, error) {
	f.Lock()
	defer f.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.posts = append(f.posts, sentPost{ChannelID: channelID, Send: send})
	f.nextID++
	return &discordgo.Message{
		ID:        fmt.Sprintf("post-%d", f.nextID),
		ChannelID: channelID,
	}, nil
}

func (f *fakeSender) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	f.Lock()
	defer f.Unlock()

	f.reactions = append(f.reactions, sentReaction{ChannelID: channelID, MessageID: messageID, Emoji: emoji})
	return f.reactionErr
}

func (f *fakeSender) EditPost(ctx context.Context, channelID, messageID, content string) error {
	f.Lock()
	defer f.Unlock()

	f.edits = append(f.edits, edit{ChannelID: channelID, MessageID: messageID, Content: content})
	return nil
}

// failingStore fails every call
type failingStore struct{}

var errStoreDown = errors.New("store is down")

func (failingStore) Get(guildID, messageID string) (*models.StarEntry, error) {
	return nil, errStoreDown
}

func (failingStore) GetByStarVar(guildID, starVarID string) (*models.StarEntry, error) {
	return nil, errStoreDown
}

func (failingStore) Put(entry *models.StarEntry) error {
	return errStoreDown
}
