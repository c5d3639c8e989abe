package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env-default:"local"`
	DSN         string            `yaml:"dsn"`
	HTTP        HTTPConfig        `yaml:"http"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
	Admin       AdminConfig       `yaml:"admin"`
	Realtime    bool              `yaml:"realtime" env-default:"false"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	// 10 MB for images, 50 MB for videos.
	MaxImageSize int64 `yaml:"max_image_size" env-default:"10485760"`
	MaxVideoSize int64 `yaml:"max_video_size" env-default:"52428800"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redispassword"`
	RedisDB       int    `yaml:"redis_db"`
}

type AdminConfig struct {
	Username     string `yaml:"username" env-default:"admin"`
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	// Digest of the legacy rolling hash, used only when no bcrypt hash is
	// configured.
	PasswordChecksum string        `yaml:"password_checksum" env-default:"39c43b7d"`
	TokenTTL         time.Duration `yaml:"token_ttl" env-default:"1h"`
	JWTSecret        string        `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET" env-required:"true"`
	SessionSecret    string        `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
