package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"casinobot/cmd"
	"casinobot/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		if err := runSubcommand(os.Args[1], os.Args[2:]); err != nil {
			log.Fatalf("%s error: %v", os.Args[1], err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runSubcommand(name string, args []string) error {
	switch name {
	case "migrate":
		return handleMigrationCommand(args)
	case "audit":
		if len(args) < 1 {
			return fmt.Errorf("usage: casinobot audit <account-id>")
		}
		return cmd.Audit(context.Background(), args[0])
	case "analyze":
		spins := 1_000_000
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid spin count %q", args[0])
			}
			spins = n
		}
		cmd.Analyze(os.Stdout, spins, 1)
		return nil
	}
	return fmt.Errorf("unknown command %q, expected migrate, audit or analyze", name)
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: casinobot migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
