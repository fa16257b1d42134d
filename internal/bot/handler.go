package bot

import (
	"context"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/canvas"
	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/log"
	"github.com/eliseohh/sagebot/internal/metrics"
)

// teleAPI is the part of *tele.Bot the handlers use.
type teleAPI interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
	Start()
	Stop()
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type CourseLister interface {
	ListCourses(ctx context.Context) ([]canvas.Course, error)
}

type Bot struct {
	api      teleAPI
	db       *index.DB
	canvas   CourseLister
	cfg      Config
	username string

	rand  func() float64
	now   func() time.Time
	sleep func(time.Duration)

	ready     sync.Once
	startedAt time.Time
}

type Config struct {
	Token       string
	Name        string
	Maintainers string
	PollTimeout time.Duration
	FlipDelay   time.Duration
}

func New(cfg Config, db *index.DB, courses CourseLister) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.GetLogger(log.BotModule).WithError(err).Error("unhandled bot error")
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}

	bot := newBot(cfg, db, courses)
	bot.api = api
	bot.username = api.Me.Username
	bot.register()
	return bot, nil
}

func newBot(cfg Config, db *index.DB, courses CourseLister) *Bot {
	if cfg.Name == "" {
		cfg.Name = "Sage"
	}
	return &Bot{
		db:     db,
		canvas: courses,
		cfg:    cfg,
		rand:   rand.Float64,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Start runs the ready hook and blocks polling for updates.
func (b *Bot) Start() {
	b.onReady()
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

func (b *Bot) onReady() {
	b.ready.Do(func() {
		b.startedAt = b.now()
		log.GetLogger(log.BotModule).WithField("username", b.username).Info("Bot is ready")
	})
}

func (b *Bot) register() {
	for _, cmd := range b.commands() {
		b.api.Handle("/"+cmd.name, cmd.handler, b.instrument(cmd.name))
	}
}

// instrument counts each command and logs handler failures.
func (b *Bot) instrument(name string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			metrics.CommandsTotal.WithLabelValues(name).Inc()
			err := next(c)
			if err != nil {
				metrics.CommandErrorsTotal.WithLabelValues(name).Inc()
				log.GetLogger(log.BotModule).WithError(err).WithField("command", name).Warn("command failed")
			}
			return err
		}
	}
}

func (b *Bot) handlePing(c tele.Context) error {
	return c.Send("Pong!")
}

// /latency replies, then edits the reply with timings.
func (b *Bot) handleLatency(c tele.Context) error {
	start := b.now()
	msg, err := b.api.Send(c.Chat(), "Ping?")
	if err != nil {
		return err
	}
	rest := b.now().Sub(start)

	roundTrip := msg.Time().Sub(c.Message().Time())
	if roundTrip < 0 {
		roundTrip = 0
	}
	_, err = b.api.Edit(msg, fmt.Sprintf("Pong! Round trip took %dms, REST ping %dms.", roundTrip.Milliseconds(), rest.Milliseconds()))
	return err
}

func (b *Bot) handleInfo(c tele.Context) error {
	return c.Send(fmt.Sprintf("%s is a course assistant for your classes: Canvas courses, reminders and a few games.\n"+
		"It is maintained by %s. Use /help to see what it can do.", b.cfg.Name, b.cfg.Maintainers))
}

func (b *Bot) handleHelp(c tele.Context) error {
	name := strings.TrimPrefix(strings.TrimSpace(c.Message().Payload), "/")
	cmds := b.commands()

	if name == "" {
		var sb strings.Builder
		fmt.Fprintf(&sb, "<b>%s commands</b>\n", html.EscapeString(b.cfg.Name))
		for _, cmd := range cmds {
			fmt.Fprintf(&sb, "/%s - %s\n", cmd.name, html.EscapeString(cmd.description))
		}
		sb.WriteString("\nUse /help &lt;command&gt; for details.")
		return c.Send(sb.String(), tele.ModeHTML)
	}

	for _, cmd := range cmds {
		if strings.EqualFold(cmd.name, name) {
			return c.Send(fmt.Sprintf("<b>/%s</b>\n%s\n\nUsage: <code>%s</code>",
				cmd.name, html.EscapeString(cmd.description), html.EscapeString(cmd.usage)), tele.ModeHTML)
		}
	}
	return c.Send(fmt.Sprintf("<b>%s</b> is not a valid command.", html.EscapeString(name)), tele.ModeHTML)
}

func (b *Bot) handleStatus(c tele.Context) error {
	counts, err := b.db.Counts()
	if err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	uptime := time.Duration(0)
	if !b.startedAt.IsZero() {
		uptime = b.now().Sub(b.startedAt).Round(time.Second)
	}
	return c.Send(fmt.Sprintf("Courses: %d\nAssignments: %d\nPending reminders: %d\nUptime: %s",
		counts.Courses, counts.Assignments, counts.Reminders, uptime))
}

func senderName(c tele.Context) string {
	u := c.Sender()
	if u == nil {
		return "Someone"
	}
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
