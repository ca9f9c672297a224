package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"millionaire-service/internal/app"
	"millionaire-service/internal/config"
	"millionaire-service/internal/domain"
	"millionaire-service/internal/infra/memory"
	pgloader "millionaire-service/internal/infra/postgres"
	redisinfra "millionaire-service/internal/infra/redis"
	transport "millionaire-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog())
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.QuestionCatalog
	if redisClient != nil {
		catalog = redisinfra.NewCatalog(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalog(loader, catalogTTL)
	}

	var store app.GameRepository
	var balances app.BalanceSink
	if redisClient != nil {
		store = redisinfra.NewGameStore(redisClient, redisTTL)
		balances = redisinfra.NewBalanceLedger(redisClient)
	} else {
		store = memory.NewGameStore()
		balances = memory.NewBalanceLedger()
	}

	timeLimit := config.TTLDuration(cfg.Game.TimeLimit, app.DefaultTimeLimit)
	service := app.NewGameService(store, catalog, balances, domain.DefaultPrizeTable(), timeLimit)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting game service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalog provides a minimal question bank, one per level; swap the
// loader with the Postgres-backed one in production.
func sampleCatalog() []domain.Question {
	return []domain.Question{
		{ID: "q0", Level: 0, Text: "What is 2 + 2?", Answers: [4]string{"3", "4", "5", "22"}, CorrectAnswer: 2},
		{ID: "q1", Level: 1, Text: "How many days are in a week?", Answers: [4]string{"5", "6", "7", "8"}, CorrectAnswer: 3},
		{ID: "q2", Level: 2, Text: "Which animal is known as man's best friend?", Answers: [4]string{"Cat", "Dog", "Horse", "Parrot"}, CorrectAnswer: 2},
		{ID: "q3", Level: 3, Text: "What color do you get by mixing blue and yellow?", Answers: [4]string{"Purple", "Orange", "Green", "Brown"}, CorrectAnswer: 3},
		{ID: "q4", Level: 4, Text: "Which planet is known as the Red Planet?", Answers: [4]string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectAnswer: 2},
		{ID: "q5", Level: 5, Text: "Who wrote Romeo and Juliet?", Answers: [4]string{"Dickens", "Shakespeare", "Austen", "Tolstoy"}, CorrectAnswer: 2},
		{ID: "q6", Level: 6, Text: "What is the capital of Australia?", Answers: [4]string{"Sydney", "Melbourne", "Canberra", "Perth"}, CorrectAnswer: 3},
		{ID: "q7", Level: 7, Text: "Which element has the chemical symbol Fe?", Answers: [4]string{"Fluorine", "Iron", "Lead", "Tin"}, CorrectAnswer: 2},
		{ID: "q8", Level: 8, Text: "In which year did the Berlin Wall fall?", Answers: [4]string{"1987", "1989", "1991", "1993"}, CorrectAnswer: 2},
		{ID: "q9", Level: 9, Text: "Which ocean is the deepest?", Answers: [4]string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectAnswer: 4},
		{ID: "q10", Level: 10, Text: "Who painted the ceiling of the Sistine Chapel?", Answers: [4]string{"Leonardo", "Raphael", "Michelangelo", "Donatello"}, CorrectAnswer: 3},
		{ID: "q11", Level: 11, Text: "What is the smallest prime number greater than 100?", Answers: [4]string{"101", "103", "107", "109"}, CorrectAnswer: 1},
		{ID: "q12", Level: 12, Text: "Which country hosted the first modern Olympic Games?", Answers: [4]string{"France", "Greece", "England", "Italy"}, CorrectAnswer: 2},
		{ID: "q13", Level: 13, Text: "What is the longest river in Europe?", Answers: [4]string{"Danube", "Rhine", "Volga", "Dnieper"}, CorrectAnswer: 3},
		{ID: "q14", Level: 14, Text: "Who was the first person to win two Nobel Prizes?", Answers: [4]string{"Linus Pauling", "Marie Curie", "John Bardeen", "Frederick Sanger"}, CorrectAnswer: 2},
	}
}
