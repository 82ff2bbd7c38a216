package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"notice/internal/core/application/usecases/commands"
	"notice/internal/jobs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPPort string `mapstructure:"http_port" validate:"required,numeric"`

	StoreDriver string `mapstructure:"store_driver" validate:"oneof=postgres memory"`
	DBHost      string `mapstructure:"db_host" validate:"required_if=StoreDriver postgres"`
	DBPort      string `mapstructure:"db_port" validate:"required_if=StoreDriver postgres"`
	DBUser      string `mapstructure:"db_user" validate:"required_if=StoreDriver postgres"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name" validate:"required_if=StoreDriver postgres"`
	DBSslMode   string `mapstructure:"db_sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	NoticeCron         string        `mapstructure:"notice_cron" validate:"required,cron"`
	NoticeBatchSize    int           `mapstructure:"notice_batch_size" validate:"min=1,max=1000"`
	NoticeTopTasks     int           `mapstructure:"notice_top_tasks" validate:"min=1,max=100"`
	WorkerPoolSize     int           `mapstructure:"worker_pool_size" validate:"min=1"`
	ItemConcurrency    int           `mapstructure:"item_concurrency" validate:"min=1"`
	ItemMaxAttempts    int           `mapstructure:"item_max_attempts" validate:"min=1"`
	ItemMaxWait        time.Duration `mapstructure:"item_max_wait" validate:"gt=0"`
	ItemInitialBackoff time.Duration `mapstructure:"item_initial_backoff" validate:"gt=0"`
	ItemMaxBackoff     time.Duration `mapstructure:"item_max_backoff" validate:"gtefield=ItemInitialBackoff"`

	KafkaBrokers     []string `mapstructure:"kafka_brokers" validate:"dive,hostname_port"`
	KafkaNoticeTopic string   `mapstructure:"kafka_notice_topic" validate:"required_with=KafkaBrokers"`

	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

func setConfigDefaults(v *viper.Viper) {
	waitPolicy := commands.DefaultItemWaitPolicy()

	v.SetDefault("http_port", "8080")
	v.SetDefault("store_driver", StoreDriverPostgres)
	v.SetDefault("db_host", "")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("notice_cron", jobs.DefaultNoticeDispatchSchedule)
	v.SetDefault("notice_batch_size", commands.DefaultDispatchBatchSize)
	v.SetDefault("notice_top_tasks", commands.DefaultNoticeTopTasks)
	v.SetDefault("worker_pool_size", 8)
	v.SetDefault("item_concurrency", 4)
	v.SetDefault("item_max_attempts", waitPolicy.MaxAttempts)
	v.SetDefault("item_max_wait", waitPolicy.MaxWait)
	v.SetDefault("item_initial_backoff", waitPolicy.InitialInterval)
	v.SetDefault("item_max_backoff", waitPolicy.MaxInterval)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_notice_topic", "message-order-notices")
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("shutdown_timeout", 30*time.Second)
}

// LoadConfig reads the given .env files (".env" when none are named), an
// optional config.yaml from the working directory or ./configs, and the
// process environment, in increasing order of precedence.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	setConfigDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := newConfigValidator().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newConfigValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		parser := cron.NewParser(
			cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)
		_, err := parser.Parse(fl.Field().String())
		return err == nil
	})

	return validate
}

// PostgresDSN renders the connection settings as a postgres:// URL, the form
// both gorm and the migrator accept.
func (c Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func (c Config) ItemWaitPolicy() commands.ItemWaitPolicy {
	return commands.ItemWaitPolicy{
		InitialInterval: c.ItemInitialBackoff,
		MaxInterval:     c.ItemMaxBackoff,
		MaxAttempts:     c.ItemMaxAttempts,
		MaxWait:         c.ItemMaxWait,
	}
}
