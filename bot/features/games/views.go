package games

import (
	"fmt"
	"strings"

	"casinobot/bot/common"
	"casinobot/games/connectfour"
	"casinobot/games/cups"
	"casinobot/games/slots"
	"casinobot/models"
	"casinobot/wager"

	"github.com/bwmarrin/discordgo"
)

var slotSymbols = map[slots.Symbol]string{
	slots.Seven:  "7️⃣",
	slots.Bar:    "🟫",
	slots.Melon:  "🍉",
	slots.Bell:   "🔔",
	slots.Peach:  "🍑",
	slots.Honey:  "🍯",
	slots.Cherry: "🍒",
	slots.Lemon:  "🍋",
}

var discs = map[connectfour.Disc]string{
	connectfour.Empty:  "⚫",
	connectfour.Red:    "🔴",
	connectfour.Yellow: "🟡",
}

// View draws a session as an embed and its controls. A closed session has
// no controls.
func View(s *wager.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	var (
		embed      *discordgo.MessageEmbed
		components []discordgo.MessageComponent
	)
	switch r := s.Rules().(type) {
	case *wager.Cups:
		embed, components = cupsView(r)
	case *wager.Slots:
		embed, components = slotsView(r)
	case *wager.ConnectFour:
		embed, components = connectFourView(r)
	default:
		embed = &discordgo.MessageEmbed{Title: s.Rules().Reason()}
	}

	embed.Color = colorFor(s.Status())
	if s.Notice() != "" {
		embed.Description = strings.TrimSpace(embed.Description + "\n\n" + s.Notice())
	}
	if s.State() == wager.StateClosed {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: statusText(s)}
		components = []discordgo.MessageComponent{}
	}
	return embed, components
}

func colorFor(status models.SessionStatus) int {
	switch status {
	case models.SessionStatusWin:
		return common.ColorWin
	case models.SessionStatusLoss:
		return common.ColorLoss
	case models.SessionStatusAwaitingInput:
		return common.ColorInfo
	}
	return common.ColorNeutral
}

func statusText(s *wager.Session) string {
	switch s.Status() {
	case models.SessionStatusWin, models.SessionStatusLoss, models.SessionStatusDraw:
		return fmt.Sprintf("Game over. Paid out %s", common.FormatAmount(models.TotalStake(s.Paid())))
	case models.SessionStatusTimedOut:
		return fmt.Sprintf("Timed out. Paid out %s", common.FormatAmount(models.TotalStake(s.Paid())))
	case models.SessionStatusCancelled:
		if s.Failure() != nil && len(s.Held()) == 0 {
			return "Cancelled: " + s.Failure().Error()
		}
		return "Cancelled. Stakes were returned"
	}
	return string(s.Status())
}

func cupsView(r *wager.Cups) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: "🥤 Cups",
		Description: fmt.Sprintf("%s, find the coin! Each correct pick doubles your stake.",
			r.Players()[0].Mention()),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: common.FormatAmount(r.Bet()), Inline: true},
			{Name: "Stake", Value: common.FormatAmount(r.Stake()), Inline: true},
		},
	}

	if round, ok := r.LastRound(); ok {
		var table strings.Builder
		for i, prize := range cups.Arrangements[round.Arrangement] {
			switch {
			case prize:
				table.WriteString("🪙")
			case i+1 == round.Pick:
				table.WriteString("❌")
			default:
				table.WriteString("🥤")
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Last round", Value: table.String()})
	}

	return embed, rows(
		button("Cup 1", "1", discordgo.PrimaryButton),
		button("Cup 2", "2", discordgo.PrimaryButton),
		button("Cup 3", "3", discordgo.PrimaryButton),
		button("Cash out", wager.TokenCashOut, discordgo.SuccessButton),
	)
}

func slotsView(r *wager.Slots) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	m := r.Machine()
	reels := "❔ ❔ ❔"
	if m.Last != nil {
		shown := make([]string, len(m.Last.Symbols))
		for i, symbol := range m.Last.Symbols {
			shown[i] = slotSymbols[symbol]
		}
		reels = strings.Join(shown, " ")
		if m.Last.Payout.IsPositive() {
			reels += fmt.Sprintf("\nWon %s", common.FormatAmount(m.Last.Payout))
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Slot Machine",
		Description: reels,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Credit", Value: common.FormatAmount(m.Credit), Inline: true},
			{Name: "Bet", Value: common.FormatAmount(m.Bet), Inline: true},
			{Name: "Loaded", Value: common.FormatAmount(r.Loaded()), Inline: true},
		},
	}

	return embed, rows(
		button("Spin", wager.TokenSpin, discordgo.PrimaryButton),
		button("Bet 1", wager.TokenBet1, discordgo.SecondaryButton),
		button("Bet 5", wager.TokenBet5, discordgo.SecondaryButton),
		button("Bet 10", wager.TokenBet10, discordgo.SecondaryButton),
		button("Cash out", wager.TokenCashOut, discordgo.SuccessButton),
		button("All in", wager.TokenAllIn, discordgo.DangerButton),
	)
}

func connectFourView(r *wager.ConnectFour) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{Title: "🔴 Connect Four 🟡"}

	if r.InLobby() {
		embed.Description = fmt.Sprintf("%s is looking for an opponent. Bet: %s",
			r.Creator().Mention(), common.FormatAmount(r.Bet()))
		return embed, rows(
			button("Join", wager.TokenJoin, discordgo.SuccessButton),
			button("Cancel", wager.TokenCancel, discordgo.DangerButton),
		)
	}

	g := r.Game()
	var board strings.Builder
	for row := connectfour.Rows - 1; row >= 0; row-- {
		for col := 0; col < connectfour.Columns; col++ {
			board.WriteString(discs[g.Board.At(col, row)])
		}
		board.WriteString("\n")
	}
	board.WriteString("1️⃣2️⃣3️⃣4️⃣5️⃣6️⃣7️⃣")

	embed.Description = board.String()
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: discs[connectfour.Red], Value: r.Creator().Mention(), Inline: true},
		{Name: discs[connectfour.Yellow], Value: r.Opponent().Mention(), Inline: true},
		{Name: "Bet", Value: common.FormatAmount(r.Bet()), Inline: true},
	}
	if g.Result == connectfour.Ongoing {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Turn",
			Value: fmt.Sprintf("%s %s", discs[g.Turn], r.PlayerFor(g.Turn).Mention()),
		})
	}

	buttons := make([]discordgo.Button, 0, connectfour.Columns)
	for col := 1; col <= connectfour.Columns; col++ {
		b := button(fmt.Sprint(col), fmt.Sprint(col), discordgo.SecondaryButton)
		b.Disabled = !g.Board.CanDrop(col - 1)
		buttons = append(buttons, b)
	}
	return embed, rows(buttons...)
}
