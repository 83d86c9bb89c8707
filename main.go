package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/backend/memory"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/storage"
)

func main() {
	ctx := context.Background()

	c, err := config.Load(ctx)
	logCloser := config.SetupLogging(c)
	defer logCloser.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	log.Info().Msg("Initializing app...")

	dbType := config.GetString(c, "DB_TYPE", "")
	log.Info().Str("dbType", dbType).Msg("Selecting backend")

	var deps api.Dependencies
	switch dbType {
	case "supa":
		deps, err = supabaseDependencies(ctx, c)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to Supabase")
		}
		if deps.Client == nil {
			// model generation ran instead of the server
			return
		}
	case "memory":
		deps = memoryDependencies(c)
	default:
		log.Fatal().Str("dbType", dbType).Msg("Unsupported DB_TYPE. Use supa or memory")
	}

	notifiers := services.FromConfig(c)
	log.Info().Int("notifiers", len(notifiers)).Msg("Contact notifications configured")
	deps.Notifier = notifiers

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// supabaseDependencies connects the database, storage and auth clients. It
// returns empty dependencies when GENERATE_MODELS or GENERATE_COLUMN_REPORT
// asked for a one-off run instead of the server.
func supabaseDependencies(ctx context.Context, c map[string]string) (api.Dependencies, error) {
	dsn := database.ConnectionString(
		config.GetString(c, "SUPABASE_DB_HOST", ""),
		config.GetString(c, "SUPABASE_DB_USER", ""),
		config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
		config.GetString(c, "SUPABASE_DB_PORT", "5432"),
	)
	log.Info().Msg("Connecting to Supabase database...")
	db, err := database.Open(dsn, config.GetString(c, "SUPABASE_DB_REPLICA_DSN", ""))
	if err != nil {
		return api.Dependencies{}, err
	}

	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		return api.Dependencies{}, models.GenerateModels(db)
	}
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		_, err := models.GenerateColumnMismatchReport(db)
		return api.Dependencies{}, err
	}

	supabaseURL := config.GetString(c, "SUPABASE_URL", "")
	if supabaseURL == "" {
		return api.Dependencies{}, fmt.Errorf("SUPABASE_URL is required")
	}

	objects, err := storage.New(ctx, storage.Config{
		SupabaseURL:     supabaseURL,
		Endpoint:        config.GetString(c, "SUPABASE_S3_ENDPOINT", ""),
		Region:          config.GetString(c, "SUPABASE_S3_REGION", "us-east-1"),
		AccessKeyID:     config.GetString(c, "SUPABASE_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(c, "SUPABASE_S3_SECRET_ACCESS_KEY", ""),
	})
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("storage: %w", err)
	}

	var verifier *auth.Verifier
	if secret := config.GetString(c, "SUPABASE_JWT_SECRET", ""); secret != "" {
		verifier = auth.NewSecretVerifier(secret)
	} else {
		verifier, err = auth.NewJWKSVerifier(ctx, auth.JWKSURL(supabaseURL))
		if err != nil {
			return api.Dependencies{}, fmt.Errorf("auth: %w", err)
		}
	}

	return api.Dependencies{
		Client:  database.NewClient(db),
		Storage: objects,
		Auth: auth.New(auth.Config{
			SupabaseURL: supabaseURL,
			AnonKey:     config.GetString(c, "SUPABASE_ANON_KEY", ""),
		}, verifier),
	}, nil
}

// memoryDependencies backs the site with in-process fakes for demos
func memoryDependencies(c map[string]string) api.Dependencies {
	email := config.GetString(c, "ADMIN_EMAIL", "admin@example.com")
	password := config.GetString(c, "ADMIN_PASSWORD", "")
	if password == "" {
		log.Warn().Msg("ADMIN_PASSWORD is empty, the admin panel accepts an empty password")
	}

	client := memory.New()
	if config.GetBool(c, "SEED_DEMO_DATA", true) {
		client.SeedProjects(demoProjects()...)
	}

	log.Info().Str("adminEmail", email).Msg("Running with in-memory backend")
	return api.Dependencies{
		Client:  client,
		Storage: memory.NewStorage(config.GetString(c, "PUBLIC_URL", "http://localhost:"+config.GetString(c, "PORT", "8080"))),
		Auth:    memory.NewAuth(email, password),
	}
}

func demoProjects() []models.Project {
	describe := func(s string) *string { return &s }
	return []models.Project{
		{Title: "Engraved Leather Wallet", Category: "Laser Cutting", Description: describe("Full-grain leather, CO2 engraved monogram."), DisplayOrder: 1},
		{Title: "Sneaker Upper Size Run", Category: "Pattern Grading", Description: describe("Graded upper pattern from EU 36 to 46."), DisplayOrder: 2},
		{Title: "Acrylic Shop Sign", Category: "Laser Cutting", Description: describe("3mm cast acrylic, cut and frosted."), DisplayOrder: 3},
		{Title: "Vectorized Logo", Category: "Vectorizing", Description: describe("Hand sketch traced into a clean cutting path."), DisplayOrder: 4},
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
