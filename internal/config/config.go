// Package config loads runtime settings from the environment with sane
// defaults, including one resilience profile per downstream service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServiceSettings is the resilience profile for one downstream service.
type ServiceSettings struct {
	FailureThreshold  uint32
	RecoveryTimeout   time.Duration
	HalfOpenSuccesses uint32
	RetryMaxAttempts  int
	RetryBaseDelay    time.Duration
	CallTimeout       time.Duration
}

type Config struct {
	HTTPAddr    string
	ServiceName string
	LogLevel    string

	RedisAddr string

	KafkaBrokers []string
	OrderTopic   string

	Order     ServiceSettings
	Inventory ServiceSettings
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for local runs.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SERVICE_NAME", "order-gateway")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_ORDER_TOPIC", "gateway.order.events")

	for _, prefix := range []string{"ORDER", "INVENTORY"} {
		v.SetDefault(prefix+"_CB_FAILURE_THRESHOLD", 5)
		v.SetDefault(prefix+"_CB_RECOVERY_TIMEOUT_SEC", 30)
		v.SetDefault(prefix+"_CB_HALFOPEN_SUCCESSES", 2)
		v.SetDefault(prefix+"_RETRY_MAX_ATTEMPTS", 3)
		v.SetDefault(prefix+"_RETRY_BASE_DELAY_MS", 100)
		v.SetDefault(prefix+"_CALL_TIMEOUT_SEC", 5)
	}

	cfg := Config{
		HTTPAddr:     v.GetString("HTTP_ADDR"),
		ServiceName:  v.GetString("SERVICE_NAME"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		RedisAddr:    v.GetString("REDIS_ADDR"),
		KafkaBrokers: splitCSV(v.GetString("KAFKA_BROKERS")),
		OrderTopic:   v.GetString("KAFKA_ORDER_TOPIC"),
	}

	var err error
	if cfg.Order, err = loadService(v, "ORDER"); err != nil {
		return Config{}, err
	}
	if cfg.Inventory, err = loadService(v, "INVENTORY"); err != nil {
		return Config{}, err
	}

	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.OrderTopic == "" {
		return Config{}, fmt.Errorf("KAFKA_ORDER_TOPIC must not be empty")
	}

	return cfg, nil
}

func loadService(v *viper.Viper, prefix string) (ServiceSettings, error) {
	s := ServiceSettings{
		FailureThreshold:  v.GetUint32(prefix + "_CB_FAILURE_THRESHOLD"),
		RecoveryTimeout:   time.Duration(v.GetInt(prefix+"_CB_RECOVERY_TIMEOUT_SEC")) * time.Second,
		HalfOpenSuccesses: v.GetUint32(prefix + "_CB_HALFOPEN_SUCCESSES"),
		RetryMaxAttempts:  v.GetInt(prefix + "_RETRY_MAX_ATTEMPTS"),
		RetryBaseDelay:    time.Duration(v.GetInt(prefix+"_RETRY_BASE_DELAY_MS")) * time.Millisecond,
		CallTimeout:       time.Duration(v.GetInt(prefix+"_CALL_TIMEOUT_SEC")) * time.Second,
	}

	if s.FailureThreshold == 0 {
		return ServiceSettings{}, fmt.Errorf("%s_CB_FAILURE_THRESHOLD must be > 0", prefix)
	}
	if s.RecoveryTimeout <= 0 {
		return ServiceSettings{}, fmt.Errorf("%s_CB_RECOVERY_TIMEOUT_SEC must be > 0", prefix)
	}
	if s.HalfOpenSuccesses == 0 {
		return ServiceSettings{}, fmt.Errorf("%s_CB_HALFOPEN_SUCCESSES must be > 0", prefix)
	}
	if s.RetryMaxAttempts <= 0 {
		return ServiceSettings{}, fmt.Errorf("%s_RETRY_MAX_ATTEMPTS must be > 0", prefix)
	}
	if s.RetryBaseDelay <= 0 {
		return ServiceSettings{}, fmt.Errorf("%s_RETRY_BASE_DELAY_MS must be > 0", prefix)
	}
	if s.CallTimeout <= 0 {
		return ServiceSettings{}, fmt.Errorf("%s_CALL_TIMEOUT_SEC must be > 0", prefix)
	}

	return s, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
