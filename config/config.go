package config

import (
	"log"

	"github.com/newsline-app/newsline/global"
	"github.com/newsline-app/newsline/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App struct {
		Name string `yaml:"name"`
		Port string `yaml:"port"`
	} `yaml:"app"`
	Database struct {
		Host         string `yaml:"host"`
		Port         string `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		Sslmode      string `yaml:"sslmode"`
		Timezone     string `yaml:"timezone"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"DB"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret   string `yaml:"jwt_secret"`
		AdminSecret string `yaml:"admin_secret"`
	} `yaml:"auth"`
}

var AppConfig *Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	AppConfig = &Config{}
	err = viper.Unmarshal(AppConfig)
	if err != nil {
		log.Fatalf("Failed to unmarshal config: %v", err)
	}

	if AppConfig.Auth.JWTSecret != "" {
		utils.SetJWTSecret(AppConfig.Auth.JWTSecret)
	}

	initLogger()
	initDB()
	initRedis()
}

func initLogger() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	global.Logger = logger.Sugar()
}
