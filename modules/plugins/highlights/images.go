package highlights

import (
	"context"
	"net/url"
	"strings"

	"github.com/Seklfreak/highlights/models"
	"github.com/bwmarrin/discordgo"
	"mvdan.cc/xurls"
)

// ImageProber checks if a URL points to an image. It returns the URL to embed and true if it does.
type ImageProber interface {
	ProbeImage(ctx context.Context, link string) (string, bool)
}

// imageResolution is the representative image of a message and the attachments left over
type imageResolution struct {
	ImageURL string
	Fields   []*discordgo.MessageEmbedField
}

// resolveImage picks at most one image, in order: a thumbnail of an image embed,
// the first attachment if it is an image and no spoiler, the first URL in $content
// that the prober accepts. Attachments not used as the image become overflow fields.
func resolveImage(ctx context.Context, msg *discordgo.Message, content string, extensions []string, prober ImageProber) imageResolution {
	var result imageResolution

	if thumbnail := imageEmbedThumbnail(msg); thumbnail != "" {
		result.ImageURL = thumbnail
		result.Fields = overflowFields(msg.Attachments, 0)
		return result
	}

	if len(msg.Attachments) > 0 {
		first := msg.Attachments[0]
		if first != nil && !isSpoiler(first) && hasImageExtension(attachmentImageURL(first), extensions) {
			result.ImageURL = attachmentImageURL(first)
			result.Fields = overflowFields(msg.Attachments, 1)
			return result
		}

		result.Fields = overflowFields(msg.Attachments, 0)
		return result
	}

	if prober == nil {
		return result
	}
	if link := xurls.Strict.FindString(content); link != "" {
		if imageURL, ok := prober.ProbeImage(ctx, link); ok {
			result.ImageURL = imageURL
		}
	}
	return result
}

func imageEmbedThumbnail(msg *discordgo.Message) string {
	for _, embed := range msg.Embeds {
		if embed != nil && embed.Type == discordgo.EmbedTypeImage && embed.Thumbnail != nil && embed.Thumbnail.URL != "" {
			return embed.Thumbnail.URL
		}
	}
	return ""
}

// attachmentImageURL prefers the media proxy, it serves the same file resized on demand
func attachmentImageURL(attachment *discordgo.MessageAttachment) string {
	if attachment.ProxyURL != "" {
		return attachment.ProxyURL
	}
	return attachment.URL
}

// hasImageExtension checks the path of $link against $extensions, ignoring case and query strings
func hasImageExtension(link string, extensions []string) bool {
	if len(extensions) <= 0 {
		extensions = models.DefaultImageExtensions
	}

	path := link
	if parsed, err := url.Parse(link); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	path = strings.ToLower(path)

	for _, extension := range extensions {
		extension = strings.ToLower(strings.TrimSpace(extension))
		if extension == "" {
			continue
		}
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		if strings.HasSuffix(path, extension) {
			return true
		}
	}
	return false
}
