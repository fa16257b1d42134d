package config

import "time"

type BotConfigType struct {
	Token       string        `env:"BOT_TOKEN"`
	Name        string        `env:"BOT_NAME" envDefault:"Sage"`
	Maintainers string        `env:"MAINTAINERS" envDefault:"the admins"`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"10s"`
	FlipDelay   time.Duration `env:"FLIP_DELAY" envDefault:"3s"`
}

type CanvasConfigType struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://canvas.test.edu"`
	Token   string `env:"TOKEN"`
	PerPage int    `env:"PER_PAGE" envDefault:"50"`
}

type SchedulerConfigType struct {
	ReminderSchedule string `env:"REMINDER_SCHEDULE" envDefault:"@every 30s"`
	SyncSchedule     string `env:"SYNC_SCHEDULE" envDefault:"@every 5m"`
}

type ConfigType struct {
	BotConfig       BotConfigType
	CanvasConfig    CanvasConfigType    `envPrefix:"CANVAS_"`
	SchedulerConfig SchedulerConfigType
	DBPath          string              `env:"DB_PATH" envDefault:"./sage.db"`
	LogLevel        string              `env:"LOG_LEVEL" envDefault:"info"`
	OpsAddr         string              `env:"OPS_ADDR" envDefault:":9090"`
}
