package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type Mongo struct {
	URI          string
	Database     string
	TimeoutSec   int
	EnsureSchema bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Upload 图片上传：backend = local | minio
type Upload struct {
	Backend   string
	Dir       string
	URLPrefix string
	MaxSizeMB int
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

type Limits struct {
	RPS         float64
	Burst       int
	PerIP       bool
	Concurrency int64
	MaxBodyMB   int64
	TimeoutSec  int
}

type Config struct {
	App    App
	Log    Log
	Mongo  Mongo
	Redis  Redis `mapstructure:"redis"`
	Upload Upload
	MinIO  MinIO `mapstructure:"minio"`
	Limits Limits
}

// setDefaults 为每个叶子键注册默认值；AutomaticEnv 只覆盖 viper 已知的键，
// 没有默认值的键即使设置了 APP_* 环境变量也会被 Unmarshal 忽略
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blog-cms")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3009)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 3010)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 7)
	v.SetDefault("log.rotate.maxAgeDays", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "blog")
	v.SetDefault("mongo.timeoutSec", 10)
	v.SetDefault("mongo.ensureSchema", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upload.backend", "local")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.urlPrefix", "/uploads")
	v.SetDefault("upload.maxSizeMB", 8)

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.accessKey", "")
	v.SetDefault("minio.secretKey", "")
	v.SetDefault("minio.useSSL", false)
	v.SetDefault("minio.bucket", "blog")
	v.SetDefault("minio.publicURL", "")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIP", false)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyMB", 16)
	v.SetDefault("limits.timeoutSec", 10)
}

func Load(path string) *Config {
	c, err := load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Stage: "read config", Err: err}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, &Error{Stage: "unmarshal config", Err: err}
	}
	return &c, nil
}

type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
