package highlights

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachment(filename string) *discordgo.MessageAttachment {
	return &discordgo.MessageAttachment{
		Filename: filename,
		URL:      "https://cdn.discordapp.com/attachments/1/2/" + filename,
		ProxyURL: "https://media.discordapp.net/attachments/1/2/" + filename,
	}
}

func TestOverflowFieldsEmpty(t *testing.T) {
	assert.Nil(t, overflowFields(nil, 0))
	assert.Nil(t, overflowFields([]*discordgo.MessageAttachment{}, 0))
	assert.Nil(t, overflowFields([]*discordgo.MessageAttachment{attachment("a.png")}, 1))
}

func TestOverflowFieldsNaming(t *testing.T) {
	attachments := []*discordgo.MessageAttachment{attachment("a.png"), attachment("b.pdf")}

	fields := overflowFields(attachments, 0)
	require.Len(t, fields, 1)
	assert.Equal(t, "Attachments", fields[0].Name)
	assert.Equal(t,
		"[a.png](https://cdn.discordapp.com/attachments/1/2/a.png)\n[b.pdf](https://cdn.discordapp.com/attachments/1/2/b.pdf)",
		fields[0].Value)
	assert.False(t, fields[0].Inline)

	fields = overflowFields(attachments, 1)
	require.Len(t, fields, 1)
	assert.Equal(t, "Other Attachments", fields[0].Name)
	assert.Equal(t, "[b.pdf](https://cdn.discordapp.com/attachments/1/2/b.pdf)", fields[0].Value)
}

func TestOverflowFieldsSpoiler(t *testing.T) {
	fields := overflowFields([]*discordgo.MessageAttachment{attachment("SPOILER_ending.png")}, 0)
	require.Len(t, fields, 1)
	assert.Equal(t, "||[SPOILER_ending.png](https://cdn.discordapp.com/attachments/1/2/SPOILER_ending.png)||", fields[0].Value)
}

func TestOverflowFieldsSplitsLongLists(t *testing.T) {
	attachments := make([]*discordgo.MessageAttachment, 0)
	for i := 0; i < 30; i++ {
		attachments = append(attachments, attachment(fmt.Sprintf("file-with-a-rather-long-name-%02d.zip", i)))
	}

	fields := overflowFields(attachments, 0)
	require.True(t, len(fields) > 1)

	var listed int
	for _, field := range fields {
		assert.Equal(t, "Attachments", field.Name)
		assert.True(t, len(field.Value) <= fieldValueLimit)
		listed += len(strings.Split(field.Value, "\n"))
	}
	assert.Equal(t, len(attachments), listed)
}
