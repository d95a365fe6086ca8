package highlights

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	attachmentsFieldName      = "Attachments"
	otherAttachmentsFieldName = "Other Attachments"

	// discord rejects embed field values longer than this
	fieldValueLimit = 1024

	spoilerPrefix = "SPOILER_"
)

// isSpoiler returns true if the attachment has been uploaded as a spoiler
func isSpoiler(attachment *discordgo.MessageAttachment) bool {
	return strings.HasPrefix(attachment.Filename, spoilerPrefix)
}

func attachmentLink(attachment *discordgo.MessageAttachment) string {
	link := fmt.Sprintf("[%s](%s)", attachment.Filename, attachment.URL)
	if isSpoiler(attachment) {
		return "||" + link + "||"
	}
	return link
}

// overflowFields lists the attachments from index $start on as embed fields.
// start 0 means no attachment is shown as the image, start 1 means the first one is.
// The list is split into several fields when it doesn't fit into one.
func overflowFields(attachments []*discordgo.MessageAttachment, start int) []*discordgo.MessageEmbedField {
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(attachments))
	for i := start; i < len(attachments); i++ {
		if attachments[i] == nil {
			continue
		}
		lines = append(lines, attachmentLink(attachments[i]))
	}
	if len(lines) <= 0 {
		return nil
	}

	name := attachmentsFieldName
	if start > 0 {
		name = otherAttachmentsFieldName
	}

	fields := make([]*discordgo.MessageEmbedField, 0, 1)
	var value string
	for _, line := range lines {
		if value != "" && len(value)+1+len(line) > fieldValueLimit {
			fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value})
			value = ""
		}
		if value != "" {
			value += "\n"
		}
		value += line
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value})

	return fields
}
