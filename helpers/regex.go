package helpers

import "regexp"

var (
	// UserRegexStrict matches Discord User Mentions
	// Source: https://github.com/b1naryth1ef/disco/blob/master/disco/bot/command.py#L15
	UserRegexStrict = regexp.MustCompile(`<@!?(\d+)>`)

	// ChannelRegexStrict matches Discord Channel Mentions
	// Source: https://github.com/b1naryth1ef/disco/blob/master/disco/bot/command.py#L17
	ChannelRegexStrict = regexp.MustCompile(`^<#(\d+)>$`)

	// SnowflakeRegex matches a bare Discord ID
	SnowflakeRegex = regexp.MustCompile(`\b(\d{17,20})\b`)

	// MessageLinkRegex matches a message permalink, the guild part is "@me" for DMs
	MessageLinkRegex = regexp.MustCompile(`^https?://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/(\d+|@me)/(\d+)/(\d+)$`)
)
