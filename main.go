package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/rover-mapper/api"
	api_i "github.com/beka-birhanu/rover-mapper/api/i"
	mazeapi "github.com/beka-birhanu/rover-mapper/api/maze"
	"github.com/beka-birhanu/rover-mapper/config"
	"github.com/beka-birhanu/rover-mapper/infrastruture/repo"
	"github.com/beka-birhanu/rover-mapper/infrastruture/telemetry"
	"github.com/beka-birhanu/rover-mapper/maze"
	"github.com/beka-birhanu/rover-mapper/service"
	"github.com/beka-birhanu/rover-mapper/service/i"
	"github.com/beka-birhanu/rover-mapper/sim"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	appLogger    zerolog.Logger
	mongoClient  *mongo.Client
	redisClient  *redis.Client
	runArchive   i.RunArchive
	runTelemetry i.Telemetry
	runner       *service.Runner
	router       *api.Router
)

func initLogger() {
	appLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).
		With().Timestamp().Str("component", "app").Logger()
}

func initMongo(ctx context.Context) {
	if config.Envs.DBHost == "" {
		appLogger.Info().Msg("Run archive disabled (DB_HOST not set)")
		return
	}

	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error().Err(err).Msg("Failed to connect to MongoDB")
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error().Err(err).Msg("MongoDB ping failed")
		os.Exit(1)
	}

	runArchive = repo.NewRunRepo(mongoClient, config.Envs.DBName, "runs")
	appLogger.Info().Msg("Run archive initialized")
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisHost == "" {
		appLogger.Info().Msg("Telemetry disabled (REDIS_HOST not set)")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error().Err(err).Msg("Redis ping failed")
		os.Exit(1)
	}

	runTelemetry = telemetry.NewRedisPublisher(redisClient, "rover")
	appLogger.Info().Msg("Telemetry initialized")
}

func initRunner() {
	heading, err := maze.ParseDirection(config.Envs.StartHeading)
	if err != nil {
		appLogger.Error().Err(err).Msg("Parsing START_HEADING")
		os.Exit(1)
	}

	priority := make([]maze.Relative, 0, len(config.Envs.PriorityOrder))
	for _, name := range config.Envs.PriorityOrder {
		rel, err := maze.ParseRelative(name)
		if err != nil {
			appLogger.Error().Err(err).Msg("Parsing PRIORITY_ORDER")
			os.Exit(1)
		}
		priority = append(priority, rel)
	}

	runLogger := appLogger.With().Str("component", "runner").Logger()
	runner = service.NewRunner(service.RunConfig{
		Bounds: maze.Rect{
			MinX: config.Envs.MinX,
			MaxX: config.Envs.MaxX,
			MinY: config.Envs.MinY,
			MaxY: config.Envs.MaxY,
		},
		Start:           maze.Position{X: config.Envs.StartX, Y: config.Envs.StartY},
		Heading:         heading,
		WallThresholdCm: config.Envs.WallThresholdCm,
		MaxNodes:        config.Envs.MaxNodes,
		Priority:        priority,
		EnableCaching:   config.Envs.EnableCaching,
		ExportPath:      config.Envs.ExportPath,
	}, runArchive, runTelemetry, runLogger)
	appLogger.Info().Msg("Runner initialized")
}

func initRouter() {
	mazeController, err := mazeapi.NewMazeController(runner, runArchive)
	if err != nil {
		appLogger.Error().Err(err).Msg("Creating maze controller")
		os.Exit(1)
	}

	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{mazeController},
	})
	appLogger.Info().Msg("Router initialized")
}

func main() {
	gin.SetMode(config.Envs.GinMode)
	initLogger()

	setupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	initMongo(setupCtx)
	defer func() {
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
	}()
	initRedis(setupCtx)
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()
	initRunner()

	// An interrupt ends the run at the next step boundary; the partial
	// map is still exported.
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bounds := maze.Rect{
		MinX: config.Envs.MinX,
		MaxX: config.Envs.MaxX,
		MinY: config.Envs.MinY,
		MaxY: config.Envs.MaxY,
	}
	world := sim.NewPerfectWorld(bounds, config.Envs.SimSeed)
	robot := sim.NewRobot(world, maze.Position{X: config.Envs.StartX, Y: config.Envs.StartY})

	appLogger.Info().
		Int("width", bounds.Width()).
		Int("height", bounds.Height()).
		Int64("seed", config.Envs.SimSeed).
		Msg("Simulated world generated")
	fmt.Print(world)

	// The dashboard comes up before the expedition so live telemetry
	// has a read side; endpoints serve 404 until the first run lands.
	if config.Envs.RESTPort > 0 {
		initRouter()
		go func() {
			if err := router.Run(); err != nil {
				appLogger.Error().Err(err).Msg("Starting server")
				os.Exit(1)
			}
		}()
	}

	run, err := runner.Execute(runCtx, robot, robot)
	if err != nil {
		appLogger.Error().Err(err).Msg("Expedition failed")
		os.Exit(1)
	}

	appLogger.Info().
		Stringer("run_id", run.ID).
		Int("nodes_explored", run.NodesExplored).
		Int("physical_scans", run.PhysicalScans).
		Int("cached_scans", run.CachedScans).
		Int("backtracks", run.Backtracks).
		Int("dead_end_reversals", run.DeadEndReversals).
		Bool("interrupted", run.Interrupted).
		Msg("Expedition completed")

	if config.Envs.RESTPort > 0 {
		appLogger.Info().Msg("Serving dashboard until interrupted")
		<-runCtx.Done()
	}
}
