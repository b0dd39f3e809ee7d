package games

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CustomIDPrefix marks buttons that feed a running wager session
const CustomIDPrefix = "casino:"

// Discord allows at most five buttons in a row
const maxButtonsPerRow = 5

// CustomID encodes a session input token as a button custom ID
func CustomID(token string) string {
	return CustomIDPrefix + token
}

// ParseCustomID extracts the input token from a session button
func ParseCustomID(customID string) (string, bool) {
	token, ok := strings.CutPrefix(customID, CustomIDPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func button(label, token string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: CustomID(token),
	}
}

// rows lays buttons out left to right, wrapping at the row limit
func rows(buttons ...discordgo.Button) []discordgo.MessageComponent {
	var out []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += maxButtonsPerRow {
		end := min(start+maxButtonsPerRow, len(buttons))
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			row.Components = append(row.Components, b)
		}
		out = append(out, row)
	}
	return out
}
