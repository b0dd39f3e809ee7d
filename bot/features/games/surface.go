package games

import (
	"context"
	"sync"

	"casinobot/bot/common"
	"casinobot/wager"

	"github.com/bwmarrin/discordgo"
)

// surface draws one session onto the response of the command that started
// it. The first render fills the deferred response; later renders edit
// the message directly since the interaction token expires.
type surface struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu        sync.Mutex
	channelID string
	messageID string
}

func newSurface(s *discordgo.Session, i *discordgo.Interaction) *surface {
	return &surface{session: s, interaction: i}
}

func (f *surface) Render(ctx context.Context, s *wager.Session) (string, error) {
	embed, components := View(s)
	return f.draw(embed, components)
}

func (f *surface) Close(ctx context.Context, s *wager.Session) error {
	embed, components := View(s)
	_, err := f.draw(embed, components)
	return err
}

func (f *surface) draw(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.messageID == "" {
		msg, err := common.EditResponse(f.session, f.interaction, embed, components)
		if err != nil {
			return "", err
		}
		f.channelID, f.messageID = msg.ChannelID, msg.ID
		return f.messageID, nil
	}

	if err := common.EditMessage(f.session, f.channelID, f.messageID, embed, components); err != nil {
		return "", err
	}
	return f.messageID, nil
}
