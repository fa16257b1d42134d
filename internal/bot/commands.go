package bot

import tele "gopkg.in/telebot.v3"

type command struct {
	name        string
	usage       string
	description string
	handler     tele.HandlerFunc
}

// commands is the registry behind both handler registration and /help.
func (b *Bot) commands() []command {
	return []command{
		{"ping", "/ping", "Check that the bot is alive.", b.handlePing},
		{"latency", "/latency", "Measure round trip and API latency.", b.handleLatency},
		{"info", "/info", "Who runs this bot.", b.handleInfo},
		{"help", "/help [command]", "List commands or describe one.", b.handleHelp},
		{"status", "/status", "Index and reminder statistics.", b.handleStatus},
		{"courses", "/courses", "List your Canvas courses.", b.handleCourses},
		{"assignments", "/assignments <courseID>", "List indexed assignments of a course.", b.handleAssignments},
		{"remind", "/remind <duration> <content>", "Set a reminder, e.g. /remind 2h submit lab.", b.handleRemind},
		{"reminders", "/reminders", "List your pending reminders.", b.handleReminders},
		{"cancelreminder", "/cancelreminder <number>", "Cancel one of your reminders by its number in /reminders.", b.handleCancelReminder},
		{"coinflip", "/coinflip", "Flip a coin.", b.handleCoinflip},
		{"roll", "/roll [min max [numdice [keephighest]]]", "Roll dice.", b.handleRoll},
		{"8ball", "/8ball <question>", "Ask the magic 8-ball a question.", b.handle8Ball},
	}
}
