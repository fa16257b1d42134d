package bot

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/parse"
)

var coinFaces = []string{"You got: Heads!", "You got: Tails!"}

var magic8BallResponses = []string{
	"As I see it, yes.",
	"Ask again later.",
	"Better not tell you now.",
	"Cannot predict now.",
	"Concentrate and ask again.",
	"Don't count on it.",
	"It is certain.",
	"It is decidedly so.",
	"Most likely.",
	"My reply is no.",
	"My sources say no.",
	"Outlook not so good.",
	"Outlook good.",
	"Reply hazy, try again.",
	"Signs point to yes.",
	"Very doubtful.",
	"Without a doubt.",
	"Yes.",
	"Yes - definitely.",
	"You may rely on it.",
}

// pick maps r in [0,1) onto an index of n items.
func pick(r float64, n int) int {
	i := int(math.Floor(r * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

func (b *Bot) handleCoinflip(c tele.Context) error {
	if err := c.Send("Flipping..."); err != nil {
		return err
	}
	result := coinFaces[pick(b.rand(), len(coinFaces))]
	b.sleep(b.cfg.FlipDelay)
	return c.Send(result)
}

func (b *Bot) handleRoll(c tele.Context) error {
	roll, err := parse.RollArgs(strings.Fields(c.Message().Payload))
	if err != nil {
		var rollErr *parse.RollError
		if errors.As(err, &rollErr) {
			return c.Send("⛔ "+rollErr.Msg, tele.ModeHTML)
		}
		return err
	}

	results := make([]int, roll.Dice)
	for i := range results {
		results[i] = int(math.Floor(b.rand()*float64(roll.Max-roll.Min+1))) + roll.Min
	}

	sorted := append([]int(nil), results...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	total := 0
	for _, v := range sorted[:roll.Keep] {
		total += v
	}

	var sb strings.Builder
	sb.WriteString("<b>Random Integer Generator</b>\n")
	if roll.Dice == 1 {
		fmt.Fprintf(&sb, "<b>Roll</b>: Your random number is %d.\n", results[0])
	} else {
		strs := make([]string, len(results))
		for i, v := range results {
			strs[i] = strconv.Itoa(v)
		}
		fmt.Fprintf(&sb, "<b>Rolls</b>: Your random numbers are %s.\n", strings.Join(strs, ", "))
	}
	if roll.Keep < roll.Dice {
		fmt.Fprintf(&sb, "<b>Result</b>: The total of the %d highest dice is <b>%d</b>\n", roll.Keep, total)
	} else {
		fmt.Fprintf(&sb, "<b>Result</b>: Your total roll is <b>%d</b>.\n", total)
	}
	fmt.Fprintf(&sb, "<i>%s rolled %d dice ranging from %d to %d</i>",
		html.EscapeString(senderName(c)), roll.Dice, roll.Min, roll.Max)

	return c.Send(sb.String(), tele.ModeHTML)
}

func (b *Bot) handle8Ball(c tele.Context) error {
	question := strings.TrimSpace(c.Message().Payload)
	if question == "" {
		return c.Send("Usage: /8ball <question>")
	}

	answer := "The 8-ball only responds to questions smh"
	if strings.Contains(question, "?") {
		answer = magic8BallResponses[pick(b.rand(), len(magic8BallResponses))]
	}

	return c.Send(fmt.Sprintf("🎱 <b>The magic 8-ball says...</b>\n%s\n<i>%s asked: %s</i>",
		html.EscapeString(answer), html.EscapeString(senderName(c)), html.EscapeString(question)), tele.ModeHTML)
}
