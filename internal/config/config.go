package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vinylmint/vinyld/internal/core/application"
	"github.com/vinylmint/vinyld/internal/core/domain"
	"github.com/vinylmint/vinyld/internal/core/ports"
	"github.com/vinylmint/vinyld/internal/infrastructure/db"
	inmemorylivestore "github.com/vinylmint/vinyld/internal/infrastructure/live-store/inmemory"
	redislivestore "github.com/vinylmint/vinyld/internal/infrastructure/live-store/redis"
	timescheduler "github.com/vinylmint/vinyld/internal/infrastructure/scheduler/gocron"
)

var (
	supportedDbs = supportedType{
		"badger":   {},
		"sqlite":   {},
		"postgres": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
	supportedLiveStores = supportedType{
		"inmemory": {},
		"redis":    {},
	}
)

type Config struct {
	Datadir  string
	Port     uint32
	LogLevel int

	DbType        string
	DbDir         string
	DbUrl         string
	SchedulerType string
	LiveStoreType string
	RedisUrl      string

	SweepInterval       int64
	StreamingPercentage string
	NFTSaleShare        string

	repo          ports.RepoManager
	liveStore     ports.LiveStore
	scheduler     ports.SchedulerService
	royaltyConfig *domain.RoyaltyConfig
	svc           application.Service
}

func (c *Config) String() string {
	json, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir             = appDataDir("vinyld")
	DefaultPort                = 7480
	defaultDbType              = "badger"
	defaultSchedulerType       = "gocron"
	defaultLiveStoreType       = "inmemory"
	defaultLogLevel            = 4
	defaultSweepInterval       = 1 // seconds
	defaultStreamingPercentage = "0.003"
	defaultNFTSaleShare        = "0.975"
)

// env returns a list of strings prefixed with `VINYLD_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("VINYLD_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	DbType = &cli.StringFlag{
		Usage: "Database type (postgres, sqlite, badger)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	DbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if VINYLD_DB_TYPE is set to postgres",
		Name:  "pg-db-url", EnvVars: env("PG_DB_URL"),
	}

	SchedulerType = &cli.StringFlag{
		Usage: "Scheduler type (gocron)",
		Name:  "scheduler-type", EnvVars: env("SCHEDULER_TYPE"),
		Value: defaultSchedulerType,
	}

	LiveStoreType = &cli.StringFlag{
		Usage: "Cache service type (redis, inmemory)",
		Name:  "live-store-type", EnvVars: env("LIVE_STORE_TYPE"),
		Value: defaultLiveStoreType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis db connection url if VINYLD_LIVE_STORE_TYPE is set to redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	SweepInterval = &cli.Int64Flag{
		Usage: "How often the auction display sweep runs (in seconds)",
		Name:  "sweep-interval", EnvVars: env("SWEEP_INTERVAL"),
		Value: int64(defaultSweepInterval),
	}

	StreamingPercentage = &cli.StringFlag{
		Usage: "Artist streaming royalty share reported in the royalty dashboard",
		Name:  "streaming-percentage", EnvVars: env("STREAMING_PERCENTAGE"),
		Value: defaultStreamingPercentage,
	}

	NFTSaleShare = &cli.StringFlag{
		Usage: "Artist share of primary sale proceeds reported in the royalty dashboard",
		Name:  "nft-sale-share", EnvVars: env("NFT_SALE_SHARE"),
		Value: defaultNFTSaleShare,
	}
)

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")

	var dbUrl string
	if c.String(DbType.Name) == "postgres" {
		dbUrl = c.String(DbUrl.Name)
		if dbUrl == "" {
			return nil, fmt.Errorf("db type set to 'postgres' but db url is missing")
		}
	}

	var redisUrl string
	if c.String(LiveStoreType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("live store type set to 'redis' but redis url is missing")
		}
	}

	return &Config{
		Datadir:             c.String(Datadir.Name),
		Port:                uint32(c.Uint(Port.Name)),
		LogLevel:            c.Int(LogLevel.Name),
		DbType:              c.String(DbType.Name),
		DbDir:               dbPath,
		DbUrl:               dbUrl,
		SchedulerType:       c.String(SchedulerType.Name),
		LiveStoreType:       c.String(LiveStoreType.Name),
		RedisUrl:            redisUrl,
		SweepInterval:       c.Int64(SweepInterval.Name),
		StreamingPercentage: c.String(StreamingPercentage.Name),
		NFTSaleShare:        c.String(NFTSaleShare.Name),
	}, nil
}

func (c *Config) Validate() error {
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf(
			"scheduler type not supported, please select one of: %s", supportedSchedulers,
		)
	}
	if !supportedLiveStores.supports(c.LiveStoreType) {
		return fmt.Errorf(
			"live store type not supported, please select one of: %s", supportedLiveStores,
		)
	}
	if c.SweepInterval < 1 {
		return fmt.Errorf("invalid sweep interval, must be at least 1 second")
	}

	if err := c.royaltyConfigService(); err != nil {
		return err
	}
	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.liveStoreService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) repoManager() error {
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	case "postgres":
		dataStoreConfig = []interface{}{c.DbUrl}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err := db.NewService(db.ServiceConfig{
		DataStoreType:   c.DbType,
		DataStoreConfig: dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) liveStoreService() error {
	var liveStoreSvc ports.LiveStore
	switch c.LiveStoreType {
	case "inmemory":
		liveStoreSvc = inmemorylivestore.NewLiveStore()
	case "redis":
		redisOpts, err := redis.ParseURL(c.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		liveStoreSvc = redislivestore.NewLiveStore(redis.NewClient(redisOpts))
	default:
		return fmt.Errorf("unknown liveStore type")
	}

	c.liveStore = liveStoreSvc
	return nil
}

func (c *Config) schedulerService() error {
	var svc ports.SchedulerService
	switch c.SchedulerType {
	case "gocron":
		svc = timescheduler.NewScheduler()
	default:
		return fmt.Errorf("unknown scheduler type")
	}

	c.scheduler = svc
	return nil
}

func (c *Config) royaltyConfigService() error {
	streaming, err := decimal.NewFromString(c.StreamingPercentage)
	if err != nil {
		return fmt.Errorf("invalid streaming percentage: %s", c.StreamingPercentage)
	}
	saleShare, err := decimal.NewFromString(c.NFTSaleShare)
	if err != nil {
		return fmt.Errorf("invalid nft sale share: %s", c.NFTSaleShare)
	}

	c.royaltyConfig = &domain.RoyaltyConfig{
		StreamingPercentage: streaming,
		NFTSaleShare:        saleShare,
	}
	return nil
}

func (c *Config) appService() error {
	svc, err := application.NewService(
		c.repo, c.liveStore, c.scheduler,
		time.Duration(c.SweepInterval)*time.Second, c.royaltyConfig,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
