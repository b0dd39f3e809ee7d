package balance

import (
	"casinobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature answers balance, history and the administrative balance commands
type Feature struct {
	balances service.BalanceService
	admin    service.AdminService
}

func New(balances service.BalanceService, admin service.AdminService) *Feature {
	return &Feature{
		balances: balances,
		admin:    admin,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "history":
		f.handleHistory(s, i)
	case "set-balance":
		f.handleAdmin(s, i, f.admin.SetBalance, "set the balance of")
	case "give-balance":
		f.handleAdmin(s, i, f.admin.GiveBalance, "gave")
	}
}
