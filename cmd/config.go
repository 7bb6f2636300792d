package cmd

import "time"

// Config carries the process configuration loaded from the environment.
type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	KafkaHost              string
	KafkaEventsTopic       string
	KafkaNotificationTopic string
	CompetitionTTL         time.Duration
	StockCacheTTL          time.Duration
}
