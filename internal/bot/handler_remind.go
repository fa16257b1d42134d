package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/parse"
)

const reminderTimeLayout = "Mon Jan 2 3:04 PM"

// maxDurationWords bounds how many leading words may form the duration.
const maxDurationWords = 6

func (b *Bot) handleRemind(c tele.Context) error {
	fields := strings.Fields(c.Message().Payload)
	if len(fields) < 2 {
		return c.Send("Usage: /remind <duration> <content>")
	}

	d, n := splitDuration(fields)
	if n == 0 {
		return c.Send("⛔ Invalid duration. Try something like 2h, 1d 3h or 45m.")
	}
	content := strings.Join(fields[n:], " ")
	if content == "" {
		return c.Send("Usage: /remind <duration> <content>")
	}

	r := &index.Reminder{
		Owner:   c.Sender().ID,
		ChatID:  c.Chat().ID,
		Content: content,
		Expires: b.now().Add(d),
	}
	if err := b.db.AddReminder(r); err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	return c.Send(fmt.Sprintf("⏰ I'll remind you about that at %s.", r.Expires.Format(reminderTimeLayout)))
}

// splitDuration picks the longest leading run of words that parses as a duration.
func splitDuration(fields []string) (time.Duration, int) {
	var (
		best time.Duration
		used int
	)
	for i := 1; i <= len(fields) && i <= maxDurationWords; i++ {
		if d, err := parse.Duration(strings.Join(fields[:i], " ")); err == nil {
			best, used = d, i
		}
	}
	return best, used
}

func (b *Bot) handleReminders(c tele.Context) error {
	rs, err := b.db.RemindersFor(c.Sender().ID)
	if err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	if len(rs) == 0 {
		return c.Send("You don't have any pending reminders!")
	}

	var sb strings.Builder
	sb.WriteString("Your reminders:\n")
	for i, r := range rs {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, r.Content, r.Expires.Format(reminderTimeLayout))
	}
	return c.Send(strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleCancelReminder(c tele.Context) error {
	args := strings.Fields(c.Message().Payload)
	if len(args) != 1 {
		return c.Send("Usage: /cancelreminder <number>")
	}

	rs, err := b.db.RemindersFor(c.Sender().ID)
	if err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(rs) {
		return c.Send("That reminder does not exist.")
	}

	r := rs[n-1]
	if _, err := b.db.DeleteReminder(r.ID); err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	return c.Send(fmt.Sprintf("Canceled reminder: %s", r.Content))
}

// DeliverReminder sends r to the chat it was created in.
func (b *Bot) DeliverReminder(r index.Reminder) error {
	_, err := b.api.Send(tele.ChatID(r.ChatID), fmt.Sprintf("⏰ Reminder: %s", r.Content))
	return err
}
