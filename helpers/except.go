// Except.go: Contains functions to make handling panics less PITA

package helpers

import (
	"fmt"
	"runtime"

	"github.com/Seklfreak/highlights/cache"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/pkg/errors"
)

// RecoverDiscord recover()s and sends a message to discord
func RecoverDiscord(msg *discordgo.Message) {
	err := recover()
	if err != nil {
		SendError(msg, err)
	}
}

// Recover recover()s and logs the error
func Recover() {
	err := recover()
	if err != nil {
		if cache.HasLogger() {
			cache.GetLogger().WithField("module", "except").Errorf("recovered: %#v", err)
		} else {
			fmt.Printf("%#v\n", err)
		}

		raven.CaptureError(fmt.Errorf("%#v", err), map[string]string{})
	}
}

// Relax is a helper to reduce if-checks if panicking is allowed
// If $err is nil this is a no-op. Panics otherwise.
func Relax(err error) {
	if err != nil {
		panic(err)
	}
}

// RelaxMessage does nothing if $err is nil or if we are not allowed to write into the channel, else sends it to Relax()
func RelaxMessage(err error) {
	if err == nil {
		return
	}
	if errD, ok := errors.Cause(err).(*discordgo.RESTError); ok && errD.Message != nil {
		if errD.Message.Code == discordgo.ErrCodeMissingPermissions || errD.Message.Code == discordgo.ErrCodeMissingAccess {
			return
		}
	}
	Relax(err)
}

// ErrorText returns the text shown to users for $err
func ErrorText(err interface{}) string {
	if errR, ok := err.(*discordgo.RESTError); ok && errR != nil && errR.Message != nil {
		return errR.Message.Message
	}
	if errE, ok := err.(error); ok {
		return errE.Error()
	}
	return fmt.Sprintf("%#v", err)
}

// SendError takes an error and reports it: the configured owner gets mentioned in the
// channel of $msg with the error text and the error goes to sentry.io
func SendError(msg *discordgo.Message, err interface{}) {
	text := ErrorText(err)
	if DEBUG_MODE {
		buf := make([]byte, 1<<16)
		stackSize := runtime.Stack(buf, false)
		text += "\n" + string(buf[0:stackSize])
	}

	if msg == nil {
		raven.CaptureError(fmt.Errorf("%s", text), map[string]string{})
		return
	}

	if cache.HasLogger() {
		cache.GetLogger().WithField("module", "except").WithField("channelID", msg.ChannelID).Error(text)
	}

	owner := ""
	if ownerID := ConfigString("owner_id"); ownerID != "" {
		owner = "<@" + ownerID + ">: "
	}
	_, sendErr := cache.GetSession().ChannelMessageSend(msg.ChannelID, owner+GetTextF("bot.errors.general", text))
	if sendErr != nil && cache.HasLogger() {
		cache.GetLogger().WithField("module", "except").Error("failed to report error: ", sendErr.Error())
	}

	tags := map[string]string{
		"ChannelID": msg.ChannelID,
		"GuildID":   msg.GuildID,
		"Content":   msg.Content,
	}
	if msg.Author != nil {
		raven.SetUserContext(&raven.User{
			ID:       msg.Author.ID,
			Username: msg.Author.Username,
		})
		tags["IsBot"] = fmt.Sprintf("%t", msg.Author.Bot)
	}
	raven.CaptureError(fmt.Errorf("%s", text), tags)
}
