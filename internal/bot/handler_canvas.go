package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/log"
)

const canvasTimeout = 15 * time.Second

func (b *Bot) handleCourses(c tele.Context) error {
	if b.canvas == nil {
		return c.Send("Canvas is not configured.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), canvasTimeout)
	defer cancel()

	courses, err := b.canvas.ListCourses(ctx)
	if err != nil {
		log.GetLogger(log.BotModule).WithError(err).Warn("can not list canvas courses")
		return c.Send(fmt.Sprintf("Canvas Error: %v", err))
	}
	if len(courses) == 0 {
		return c.Send("No courses found.")
	}

	lines := []string{"📚 <b>Your courses</b>"}
	for _, course := range courses {
		code := course.CourseCode
		if code == "" {
			code = "-"
		}
		lines = append(lines, fmt.Sprintf("• <b>%s</b>: %s (<code>%d</code>)", html.EscapeString(code), html.EscapeString(course.Name), course.ID))
	}
	return sendChunked(c, lines)
}

func (b *Bot) handleAssignments(c tele.Context) error {
	args := strings.Fields(c.Message().Payload)
	if len(args) != 1 {
		return c.Send("Usage: /assignments <courseID>")
	}
	courseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Usage: /assignments <courseID>")
	}

	as, err := b.db.Assignments(courseID)
	if err != nil {
		return c.Send(fmt.Sprintf("DB Error: %v", err))
	}
	if len(as) == 0 {
		return c.Send(fmt.Sprintf("No assignments indexed for course %d.", courseID))
	}

	lines := []string{fmt.Sprintf("📝 <b>Assignments for %d</b>", courseID)}
	for _, a := range as {
		due := "no due date"
		if a.DueAt != nil {
			due = "due " + a.DueAt.Local().Format("Mon Jan 2 3:04 PM")
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", html.EscapeString(a.Name), due))
	}
	return sendChunked(c, lines)
}

// maxMessageLen is Telegram's message text limit.
const maxMessageLen = 4096

// sendChunked sends HTML lines as few messages as possible, splitting only
// between lines. A single line over the limit is cut.
func sendChunked(c tele.Context, lines []string) error {
	var sb strings.Builder
	flush := func() error {
		if sb.Len() == 0 {
			return nil
		}
		err := c.Send(sb.String(), tele.ModeHTML)
		sb.Reset()
		return err
	}
	for _, line := range lines {
		if len(line) > maxMessageLen {
			line = truncate(line, maxMessageLen)
		}
		if sb.Len() > 0 && sb.Len()+1+len(line) > maxMessageLen {
			if err := flush(); err != nil {
				return err
			}
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return flush()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
