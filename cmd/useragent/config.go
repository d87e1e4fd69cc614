package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/conversa-labs/user-agent/pkg/agent"
	"github.com/conversa-labs/user-agent/pkg/grammar"
	"github.com/conversa-labs/user-agent/pkg/models"
	"github.com/conversa-labs/user-agent/pkg/session"
	"github.com/conversa-labs/user-agent/pkg/store"
	"github.com/conversa-labs/user-agent/pkg/tools"
)

// Config collects everything the CLI needs to assemble an agent. YAML file
// values are overridden by flags where a flag was set.
type Config struct {
	Listen   string `yaml:"listen"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	Store struct {
		Backend         string `yaml:"backend"`
		PostgresURL     string `yaml:"postgres_url"`
		MongoURI        string `yaml:"mongo_uri"`
		MongoDatabase   string `yaml:"mongo_database"`
		MongoCollection string `yaml:"mongo_collection"`
	} `yaml:"store"`

	Transcripts struct {
		Backend       string        `yaml:"backend"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"transcripts"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Listen = ":8080"
	cfg.Provider = "none"
	cfg.Model = "gpt-4o-mini"
	cfg.Store.Backend = "memory"
	cfg.Store.MongoDatabase = "useragent"
	cfg.Store.MongoCollection = "users"
	cfg.Transcripts.Backend = "memory"
	cfg.Transcripts.RedisAddr = "localhost:6379"
	return cfg
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := defaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" && cfg.Store.PostgresURL == "" {
		cfg.Store.PostgresURL = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" && cfg.Store.MongoURI == "" {
		cfg.Store.MongoURI = v
	}
	return cfg, nil
}

// buildAgent assembles the store, model, parser, and tool catalog. The
// returned cleanup releases store connections.
func buildAgent(ctx context.Context, cfg Config, log *zap.Logger) (*agent.Agent, store.UserStore, func(), error) {
	users, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var model models.Agent
	if cfg.Provider != "" && cfg.Provider != "none" {
		model, err = models.NewProvider(ctx, cfg.Provider, cfg.Model)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
	}

	a, err := agent.New(agent.Options{
		Tools:  tools.All(users),
		Parser: grammar.New(),
		Model:  model,
		Logger: log,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return a, users, cleanup, nil
}

func buildStore(ctx context.Context, cfg Config) (store.UserStore, func(), error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return store.NewInMemoryStore(), func() {}, nil
	case "postgres":
		ps, err := store.NewPostgresStore(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil
	case "mongo":
		ms, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func buildTranscripts(cfg Config) (session.Store, error) {
	switch cfg.Transcripts.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		var opts []session.Option
		if cfg.Transcripts.TTL > 0 {
			opts = append(opts, session.WithTTL(cfg.Transcripts.TTL))
		}
		return session.NewRedisStore(cfg.Transcripts.RedisAddr, cfg.Transcripts.RedisPassword, cfg.Transcripts.RedisDB, opts...), nil
	default:
		return nil, fmt.Errorf("unknown transcript backend: %s", cfg.Transcripts.Backend)
	}
}
