package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/exp/rand"

	"dagmcts/experiments/metrics"
	"dagmcts/game"
	"dagmcts/game/connectfour"
	"dagmcts/gamemaster"
	"dagmcts/searcher"
)

type config struct {
	Matches         int    `mapstructure:"matches"`
	AgentIterations int    `mapstructure:"agent_iterations"`
	HumanIterations int    `mapstructure:"human_iterations"`
	Seed            uint64 `mapstructure:"seed"`
	Rows            int    `mapstructure:"rows"`
	Cols            int    `mapstructure:"cols"`
	MetricsDir      string `mapstructure:"metrics_dir"`
	LogLevel        string `mapstructure:"log_level"`
}

func loadConfig() (config, error) {
	viper.SetDefault("matches", 1000)
	viper.SetDefault("agent_iterations", 20000)
	viper.SetDefault("human_iterations", 2000)
	viper.SetDefault("seed", 1)
	viper.SetDefault("rows", connectfour.DefaultRows)
	viper.SetDefault("cols", connectfour.DefaultCols)
	viper.SetDefault("metrics_dir", filepath.Join("experiments", "selfplay"))
	viper.SetDefault("log_level", "info")

	viper.SetConfigName("selfplay")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("dagmcts")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, err
		}
	}

	var cfg config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		bootstrapLogger := zerolog.New(os.Stderr)
		bootstrapLogger.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	writer, err := metrics.NewWriter(cfg.MetricsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create metrics writer")
	}
	logger.Info().
		Int("matches", cfg.Matches).
		Int("agent_iterations", cfg.AgentIterations).
		Int("human_iterations", cfg.HumanIterations).
		Str("metrics_dir", writer.BaseDir()).
		Msg("starting self-play experiment")

	var matchRecords []metrics.MatchRecord
	var moveRecords []metrics.MoveRecord
	agentWins, humanWins, draws := 0, 0, 0

	for i := 0; i < cfg.Matches; i++ {
		// One seed per match index keeps every match reproducible on its own.
		matchSeed := cfg.Seed + uint64(i)
		state := connectfour.NewState(cfg.Rows, cfg.Cols)
		state.Initialize(rand.New(rand.NewSource(matchSeed)))

		agent := searcher.New[*connectfour.State, connectfour.Move](
			searcher.WithSeed(matchSeed), searcher.WithMetrics())
		human := searcher.New[*connectfour.State, connectfour.Move](
			searcher.WithSeed(matchSeed+0x9e3779b9), searcher.WithMetrics())

		match := gamemaster.NewMatch(agent, human, cfg.AgentIterations, cfg.HumanIterations, logger)
		startTime := time.Now()
		result := match.Run(state)

		switch result.Winner {
		case game.Agent:
			agentWins++
		case game.Human:
			humanWins++
		default:
			draws++
		}

		id := metrics.NewMatchID()
		matchRecords = append(matchRecords, metrics.MatchRecord{
			ID: id,
			MatchMetric: metrics.MatchMetric{
				StartingPlayer: result.StartingPlayer.String(),
				Winner:         result.Winner.String(),
				Plies:          result.Plies,
				StartTime:      startTime,
				EndTime:        startTime.Add(result.Duration),
				Duration:       result.Duration,
			},
		})
		for _, move := range result.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Match: id, MoveMetric: move})
		}

		logger.Info().
			Int("match", i+1).
			Stringer("winner", result.Winner).
			Int("plies", result.Plies).
			Dur("duration", result.Duration).
			Float64("agent_win_rate", float64(agentWins)/float64(i+1)).
			Msg("match finished")
	}

	if err := writer.WriteMatchRecords(matchRecords); err != nil {
		logger.Error().Err(err).Msg("failed to write match records")
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		logger.Error().Err(err).Msg("failed to write move records")
	}

	logger.Info().
		Int("agent_wins", agentWins).
		Int("human_wins", humanWins).
		Int("draws", draws).
		Msg("experiment finished")
}
