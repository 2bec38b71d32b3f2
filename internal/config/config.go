package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"pixvault/api/internal/tier"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	BucketOriginals  string
	BucketThumbnails string
	UseSSL           bool
	Region           string
}

type SecurityConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

type UploadConfig struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
	RenderTimeout     time.Duration
}

type TierConfig struct {
	Name            string
	ThumbnailSizes  []int
	ExposeOriginal  bool
	ExpiringLinks   bool
	MinLinkDuration int
	MaxLinkDuration int
}

type AppConfig struct {
	Environment      string
	PublicBaseURL    string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Upload           UploadConfig
	Tiers            []TierConfig
	DefaultTier      string
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("PIXVAULT")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// TierSet turns the loosely-typed config section into validated policies.
// Bad tier definitions fail the boot, not the first upload.
func (c *AppConfig) TierSet() (*tier.Set, error) {
	policies := make([]tier.Policy, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		policies = append(policies, tier.Policy{
			Name:            t.Name,
			ThumbnailSizes:  t.ThumbnailSizes,
			ExposeOriginal:  t.ExposeOriginal,
			ExpiringLinks:   t.ExpiringLinks,
			MinLinkDuration: t.MinLinkDuration,
			MaxLinkDuration: t.MaxLinkDuration,
		})
	}
	return tier.NewSet(policies, c.DefaultTier)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("publicbaseurl", "http://localhost:8080")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucketoriginals", "pixvault-originals")
	v.SetDefault("storage.bucketthumbnails", "pixvault-thumbnails")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtttl", "24h")

	v.SetDefault("upload.allowedextensions", []string{"jpg", "jpeg", "png"})
	v.SetDefault("upload.maxsizebytes", 20<<20)
	v.SetDefault("upload.rendertimeout", "30s")

	v.SetDefault("defaulttier", "basic")
	v.SetDefault("tiers", []map[string]any{
		{
			"name":           "basic",
			"thumbnailsizes": []int{200},
		},
		{
			"name":           "premium",
			"thumbnailsizes": []int{200, 400},
			"exposeoriginal": true,
		},
		{
			"name":            "enterprise",
			"thumbnailsizes":  []int{200, 400},
			"exposeoriginal":  true,
			"expiringlinks":   true,
			"minlinkduration": 300,
			"maxlinkduration": 30000,
		},
	})
}
