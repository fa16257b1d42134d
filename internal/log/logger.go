package log

import (
	"github.com/sirupsen/logrus"
)

type LogModule string

const (
	BotModule       LogModule = "bot"
	CanvasModule    LogModule = "canvas"
	IndexModule     LogModule = "index"
	SchedulerModule LogModule = "scheduler"
	MetricsModule   LogModule = "metrics"
	CLIModule       LogModule = "cli"
)

func GetLogger(module LogModule) *logrus.Entry {
	return logrus.WithField("module", module)
}

// Setup applies the configured level. An unparsable level keeps logrus' default.
func Setup(level string) {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse log level %s. using default ...", level)
		return
	}
	logrus.Infof("setting log level to %s", ll)
	logrus.SetLevel(ll)
}
