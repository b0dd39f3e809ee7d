package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"casinobot/admission"
	"casinobot/archive"
	"casinobot/bot"
	"casinobot/bot/features/balance"
	"casinobot/bot/features/chance"
	"casinobot/bot/features/games"
	"casinobot/bot/features/stocks"
	"casinobot/bot/features/transfer"
	"casinobot/config"
	"casinobot/database"
	"casinobot/events"
	"casinobot/interaction"
	"casinobot/market"
	"casinobot/models"
	"casinobot/repository"
	"casinobot/repository/memory"
	"casinobot/repository/sqlite"
	"casinobot/service"
	"casinobot/wager"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	SetupLogging(cfg)
	log.Info("Starting casino bot...")

	eventBus := events.NewBus()

	uowFactory, closeStore, err := OpenLedger(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer closeStore()

	house, err := resolveHouse(cfg)
	if err != nil {
		return err
	}
	log.WithField("house", house).Info("House account resolved")

	limiter, closeLimiter, err := openLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	if err := setupArchive(cfg, uowFactory, eventBus); err != nil {
		return err
	}
	eventBus.Subscribe(events.EventTypeStockTrade, func(ctx context.Context, e events.Event) {
		if trade, ok := e.(events.StockTradeEvent); ok {
			log.WithFields(log.Fields{
				"account": trade.AccountID,
				"symbol":  trade.Symbol,
				"shares":  trade.Shares.String(),
			}).Info("Stock trade")
		}
	})

	balances := service.NewBalanceService(uowFactory, cfg.StartingBalance)
	transfers := service.NewTransferService(uowFactory, cfg.StartingBalance)
	admin := service.NewAdminService(uowFactory, cfg.StartingBalance, cfg.OwnerIDs)
	portfolio := service.NewPortfolioService(uowFactory, cfg.StartingBalance, cfg.StockPriceMultiplier,
		service.WithSellFee(cfg.StockSellFee))
	houseEscrow := service.NewEscrowService(uowFactory, cfg.StartingBalance, house, true)
	playerEscrow := service.NewEscrowService(uowFactory, cfg.StartingBalance, house, false)

	dispatcher := interaction.NewDispatcher()
	table := wager.NewTable(limiter, dispatcher, eventBus)

	features := bot.Features{
		Balance:  balance.New(balances, admin),
		Transfer: transfer.New(transfers),
		Chance:   chance.New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		Games: games.New(table, houseEscrow, playerEscrow, dispatcher, games.Timeouts{
			Cups:             cfg.CupsTimeout,
			Slots:            cfg.SlotsTimeout,
			ConnectFourLobby: cfg.ConnectFourLobbyTimeout,
			ConnectFourTurn:  cfg.ConnectFourTurnTimeout,
		}),
		Stocks: stocks.New(portfolio, market.NewFixedQuoter(cfg.StockPrices)),
	}

	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}, features)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")

	// Running games are cancelled and refunded before the connection goes away
	table.Close()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	done := make(chan struct{})
	go func() {
		eventBus.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("Shutdown completed")
	case <-time.After(10 * time.Second):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}

// OpenLedger opens the configured ledger backend. The returned func
// releases it.
func OpenLedger(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (service.UnitOfWorkFactory, func(), error) {
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return repository.NewUnitOfWorkFactory(db, eventBus), db.Close, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewUnitOfWorkFactory(db, eventBus), func() {
			if err := db.Close(); err != nil {
				log.Errorf("Error closing sqlite ledger: %v", err)
			}
		}, nil

	case config.BackendMemory:
		log.Warn("Using the in-memory ledger, balances are lost on restart")
		return memory.NewUnitOfWorkFactory(memory.NewStore(), eventBus), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
}

// resolveHouse returns the configured house account, or the bot user when
// none is set
func resolveHouse(cfg *config.Config) (models.AccountID, error) {
	if cfg.HouseAccountID != 0 {
		return models.AccountID(cfg.HouseAccountID), nil
	}
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return 0, fmt.Errorf("error creating discord session: %w", err)
	}
	me, err := dg.User("@me")
	if err != nil {
		return 0, fmt.Errorf("failed to look up the bot user: %w", err)
	}
	return models.ParseAccountID(me.ID)
}

// redisSlotTTL outlives any real game so only a crashed process loses its slots to expiry
const redisSlotTTL = 2 * time.Hour

func gameLimits(cfg *config.Config) map[models.GameKind]admission.Limits {
	return map[models.GameKind]admission.Limits{
		models.GameKindCups:        admission.Limits(cfg.CupsLimits),
		models.GameKindSlots:       admission.Limits(cfg.SlotsLimits),
		models.GameKindConnectFour: admission.Limits(cfg.ConnectFourLimits),
	}
}

func openLimiter(ctx context.Context, cfg *config.Config) (admission.Limiter, func(), error) {
	limits := gameLimits(cfg)
	if cfg.AdmissionBackend != config.AdmissionRedis {
		return admission.NewMemoryLimiter(limits), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.WithField("addr", cfg.RedisAddr).Info("Redis admission control enabled")

	return admission.NewRedisLimiter(client, limits, redisSlotTTL), func() { client.Close() }, nil
}

func setupArchive(cfg *config.Config, uowFactory service.UnitOfWorkFactory, eventBus *events.Bus) error {
	var sink archive.Sink = archive.NewRepositorySink(uowFactory)
	if len(cfg.ElasticsearchAddresses) > 0 {
		es, err := archive.NewElasticsearchSink(sink, archive.ElasticsearchConfig{
			Addresses: cfg.ElasticsearchAddresses,
			Username:  cfg.ElasticsearchUsername,
			Password:  cfg.ElasticsearchPassword,
			Index:     cfg.ElasticsearchIndex,
		})
		if err != nil {
			return fmt.Errorf("failed to create elasticsearch archive: %w", err)
		}
		sink = es
		log.WithField("index", cfg.ElasticsearchIndex).Info("Indexing game results in Elasticsearch")
	}
	archive.Subscribe(eventBus, sink)
	return nil
}
