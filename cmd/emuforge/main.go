// EmuForge Core - Virtual Device Definition Manager
//
// This is the main entry point for the EmuForge Core service. EmuForge
// maintains a catalogue of named virtual device definitions: file-backed
// configurations binding a target platform image, a skin, optional
// storage card and hardware overrides.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/emuforge/emuforge-core/migrations"

	"github.com/emuforge/emuforge-core/internal/audit"
	"github.com/emuforge/emuforge-core/internal/avd"
	"github.com/emuforge/emuforge-core/internal/events"
	"github.com/emuforge/emuforge-core/internal/infrastructure/config"
	"github.com/emuforge/emuforge-core/internal/infrastructure/database"
	"github.com/emuforge/emuforge-core/internal/infrastructure/logging"
	"github.com/emuforge/emuforge-core/internal/infrastructure/mqtt"
	"github.com/emuforge/emuforge-core/internal/sdcard"
	"github.com/emuforge/emuforge-core/internal/target"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting EmuForge Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Build the target catalogue from configuration
	catalog, err := buildCatalog(cfg)
	if err != nil {
		return fmt.Errorf("building target catalogue: %w", err)
	}
	log.Info("target catalogue initialised",
		"location", catalog.Location(),
		"targets", len(catalog.Targets()),
	)

	// Initialise the definition registry and scan the root
	registry := avd.NewRegistry(cfg.AVD.Root, catalog)
	registry.SetLogger(log)
	if reloadErr := registry.Reload(); reloadErr != nil {
		return fmt.Errorf("loading definition registry: %w", reloadErr)
	}
	log.Info("definition registry initialised",
		"root", registry.Root(),
		"definitions", registry.Len(),
		"valid", len(registry.Valid()),
		"broken", len(registry.Broken()),
	)

	// Storage card tool runner
	runner := sdcard.NewRunner()
	runner.SetLogger(log)

	// Lifecycle manager
	manager := avd.NewManager(registry, catalog, runner, cfg.SdcardToolPath())
	manager.SetLogger(log)

	// Audit trail
	auditRepo := audit.NewSQLiteRepository(db.DB)
	manager.SetAuditor(audit.NewRecorder(auditRepo))
	log.Info("audit trail enabled")

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// Event publisher: lifecycle events plus a retained registry summary
		publisher := events.NewPublisher(mqttClient, byte(cfg.MQTT.QoS))
		publisher.SetLogger(log)
		manager.SetNotifier(publisher)

		if pubErr := publisher.PublishSummary(registry.All()); pubErr != nil {
			log.Warn("publishing initial registry summary", "error", pubErr)
		}

		// External tools can request a rescan after editing definitions on disk
		refreshTopic := mqtt.Topics{}.RegistryRefresh()
		subErr := mqttClient.Subscribe(refreshTopic, byte(cfg.MQTT.QoS), func(_ string, _ []byte) error {
			if reloadErr := registry.Reload(); reloadErr != nil {
				return fmt.Errorf("reloading registry: %w", reloadErr)
			}
			log.Info("registry reloaded via MQTT refresh", "definitions", registry.Len())
			return publisher.PublishSummary(registry.All())
		})
		if subErr != nil {
			return fmt.Errorf("subscribing to %s: %w", refreshTopic, subErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// SIGHUP triggers a registry rescan without restarting the service
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	for {
		select {
		case <-hup:
			log.Info("SIGHUP received, rescanning definition root")
			if reloadErr := registry.Reload(); reloadErr != nil {
				log.Error("registry reload failed", "error", reloadErr)
				continue
			}
			log.Info("registry reloaded",
				"definitions", registry.Len(),
				"valid", len(registry.Valid()),
				"broken", len(registry.Broken()),
			)
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			log.Info("EmuForge Core stopped")
			return nil
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses EMUFORGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("EMUFORGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildCatalog converts the configured target declarations into a
// resolved catalogue rooted at the SDK location.
func buildCatalog(cfg *config.Config) (*target.Catalog, error) {
	specs := make([]target.Spec, 0, len(cfg.SDK.Targets))
	for _, t := range cfg.SDK.Targets {
		specs = append(specs, target.Spec{
			Hash:        t.Hash,
			Name:        t.Name,
			Vendor:      t.Vendor,
			Parent:      t.Parent,
			Dir:         t.Dir,
			DefaultSkin: t.DefaultSkin,
		})
	}
	return target.NewCatalog(cfg.SDK.Location, specs)
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient may be nil when MQTT is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	return nil
}
