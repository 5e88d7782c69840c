package relay

import (
	"github.com/umputun/redhook/pkg/discord"
	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/media"
)

// EmbedColor is the accent color of every post embed
const EmbedColor = 0x40e0d0

const postLinkBase = "https://reddit.com"

// BuildEmbed makes the embed announcing item, the representation decides which media part is set.
// The text excerpt is bounded on its own, without the link line. A self text near the limit yields a
// description over the webhook's 4096 characters, and the sink rejects that post as a failed entry.
func BuildEmbed(item domain.FeedItem, rep media.Representation) discord.Embed {
	embed := discord.Embed{
		Title:       item.Title,
		Color:       EmbedColor,
		Description: "[View Post](" + postLinkBase + item.Permalink + ")",
	}
	switch rep.Kind {
	case media.KindVideo:
		embed.Video = &discord.Media{URL: rep.URL}
	case media.KindImage:
		embed.Image = &discord.Media{URL: rep.URL}
	default:
		// no trailing separator for posts without text
		if rep.Text != "" {
			embed.Description += "\n\n" + rep.Text
		}
	}
	return embed
}
