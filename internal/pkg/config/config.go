package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	RedisCache RedisCache `yaml:"rdb"`
	Storage    Storage    `yaml:"storage"`
}

type Server struct {
	PublicURL     string        `env-default:"http://localhost:8080" yaml:"publicURL"`
	Addr          string        `env-default:"localhost:8080" yaml:"addr"`
	ReadTimeout   time.Duration `env-default:"10s"            yaml:"readTimeout"`
	IdleTimeout   time.Duration `env-default:"30s"            yaml:"idleTimeout"`
	WriteTimeout  time.Duration `env-default:"30s"            yaml:"writeTimeout"`
	MaxUploadSize int64         `env-default:"1048576"        yaml:"maxUploadSize"`
	RateLimit     RateLimit     `yaml:"rateLimit"`
}

type RateLimit struct {
	RPS   float64 `env-default:"10" yaml:"rps"`
	Burst int     `env-default:"20" yaml:"burst"`
}

type Logger struct {
	Level     string   `env-default:"info" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type PostgresDB struct {
	Addr     string `yaml:"addr"`
	Username string `env:"POSTGRES_USER"     env-required:"true" yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       env-required:"true" yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

// ConnString returns a pgx pool connection string.
func (p PostgresDB) ConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode + "&pool_max_conns=" + p.MaxConns
}

type Auth struct {
	TokenTTL      time.Duration `env-default:"720h" yaml:"tokenTTL"`
	PurgeInterval time.Duration `env-default:"1h"   yaml:"purgeInterval"`
	CSRFEnabled   bool          `env-default:"true" yaml:"csrfEnabled"`
	CSRFSecret    string        `env:"CSRF_SECRET"  env-required:"true" yaml:"csrfSecret"`
	CSRFTTL       time.Duration `env-default:"12h"  yaml:"csrfTTL"`
}

type RedisCache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `env-default:"10m" yaml:"exp"`
}

type Storage struct {
	Dir       string `env-default:"./uploads"  yaml:"dir"`
	URLPrefix string `env-default:"/uploads"   yaml:"urlPrefix"`
	ThumbSize int    `env-default:"64"         yaml:"thumbSize"`
	OGPSize   int    `env-default:"256"        yaml:"ogpSize"`
	MaxPixels int    `env-default:"16777216"   yaml:"maxPixels"`
}

func New(configPath string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
