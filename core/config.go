package core

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no client timeout
	}

	SessionConfig struct {
		Store     string // memory | file | redis
		TokenFile string
		TokenKey  string
	}

	RedisConfig struct {
		Addr     string
		Password string
	}

	Config struct {
		Env          string
		Debug        bool
		AppName      string
		Build        string
		RollbarToken string
		API          APIConfig
		Session      SessionConfig
		Redis        RedisConfig
		Device       Device
		// EnforceTenancy rejects school-scoped calls for another school than the logged in admin's.
		EnforceTenancy bool
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Presensi")
	conf.SetDefault("build", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("api.baseURL", "http://localhost:5000")
	conf.SetDefault("api.timeout", time.Duration(0))
	conf.SetDefault("session.store", "file")
	conf.SetDefault("session.tokenFile", defaultTokenFile())
	conf.SetDefault("session.tokenKey", "token")
	conf.SetDefault("redis.addr", "127.0.0.1:6379")
	conf.SetDefault("redis.password", "")
	conf.SetDefault("device.name", runtime.GOOS)
	conf.SetDefault("device.hardware", runtime.GOARCH)
	conf.SetDefault("tenancy.enforce", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(conf.GetString("api.baseURL"), "/"),
			Timeout: conf.GetDuration("api.timeout"),
		},
		Session: SessionConfig{
			Store:     strings.ToLower(conf.GetString("session.store")),
			TokenFile: conf.GetString("session.tokenFile"),
			TokenKey:  conf.GetString("session.tokenKey"),
		},
		Redis: RedisConfig{
			Addr:     conf.GetString("redis.addr"),
			Password: conf.GetString("redis.password"),
		},
		Device: Device{
			Name:     conf.GetString("device.name"),
			Hardware: conf.GetString("device.hardware"),
		},
		EnforceTenancy: conf.GetBool("tenancy.enforce"),
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".presensi", "token")
	}
	return filepath.Join(home, ".presensi", "token")
}
