package bot

import (
	"context"
	"sync"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/sagebot/internal/canvas"
)

// MockContext implements tele.Context restricted to what the handlers use
type MockContext struct {
	tele.Context
	PayloadVal string
	SenderVal  *tele.User
	ChatVal    *tele.Chat
	Unixtime   int64

	Sent     []interface{}
	SentOpts [][]interface{}
}

func (m *MockContext) Message() *tele.Message {
	return &tele.Message{Payload: m.PayloadVal, Sender: m.sender(), Chat: m.chat(), Unixtime: m.Unixtime}
}

func (m *MockContext) Sender() *tele.User { return m.sender() }

func (m *MockContext) Chat() *tele.Chat { return m.chat() }

func (m *MockContext) Send(what interface{}, opts ...interface{}) error {
	m.Sent = append(m.Sent, what)
	m.SentOpts = append(m.SentOpts, opts)
	return nil
}

// LastText returns the most recent sent value as a string.
func (m *MockContext) LastText() string {
	if len(m.Sent) == 0 {
		return ""
	}
	s, _ := m.Sent[len(m.Sent)-1].(string)
	return s
}

func (m *MockContext) sender() *tele.User {
	if m.SenderVal == nil {
		return &tele.User{ID: 1, Username: "TestUser"}
	}
	return m.SenderVal
}

func (m *MockContext) chat() *tele.Chat {
	if m.ChatVal == nil {
		return &tele.Chat{ID: 100}
	}
	return m.ChatVal
}

type sentMessage struct {
	To   string
	What interface{}
}

// fakeAPI records registrations and outbound traffic instead of calling Telegram.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]tele.HandlerFunc
	sent     []sentMessage
	edited   []interface{}
	started  bool
	sendTime int64
	sendErr  error
}

func (f *fakeAPI) Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc) {
	if f.handlers == nil {
		f.handlers = map[string]tele.HandlerFunc{}
	}
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	f.handlers[endpoint.(string)] = h
}

func (f *fakeAPI) Start() { f.started = true }

func (f *fakeAPI) Stop() {}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{To: to.Recipient(), What: what})
	return &tele.Message{ID: len(f.sent), Unixtime: f.sendTime, Chat: &tele.Chat{}}, nil
}

func (f *fakeAPI) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited = append(f.edited, what)
	return &tele.Message{}, nil
}

type fakeCanvas struct {
	courses []canvas.Course
	err     error
}

func (f *fakeCanvas) ListCourses(ctx context.Context) ([]canvas.Course, error) {
	return f.courses, f.err
}

// randSeq returns the given values in order, repeating the last one.
func randSeq(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}
