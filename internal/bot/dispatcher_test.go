package bot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/tridentbot/internal/bot"
	"github.com/cory-johannsen/tridentbot/internal/chat"
	"github.com/cory-johannsen/tridentbot/internal/game/command"
	"github.com/cory-johannsen/tridentbot/internal/game/loot"
	"github.com/cory-johannsen/tridentbot/internal/game/random"
)

const testSeed = 42

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seeded() random.Source { return random.NewSeeded(testSeed) }

func testOptions() bot.Options {
	return bot.Options{
		Prefix:        "!",
		ThunderTrials: 2000,
		RaidFile:      "testdata-missing-raids.txt",
		Streamer:      "Oskar",
		Locale:        language.MustParse("pl"),
		Content:       loot.Default(),
		Texts:         bot.DefaultTexts(),
		Random:        seeded,
		Now:           func() time.Time { return testNow },
	}
}

func newDispatcher(t *testing.T, store *fakeStore, mutate ...func(*bot.Options)) *bot.Dispatcher {
	t.Helper()
	opts := testOptions()
	for _, m := range mutate {
		m(&opts)
	}
	d, err := bot.NewDispatcher(store, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return d
}

func chatLine(text string) chat.Message {
	return chat.Message{
		ID:          "msg-1",
		Channel:     "oskar",
		UserID:      "1001",
		Login:       "alice",
		DisplayName: "Alice",
		Text:        text,
	}
}

func say(t *testing.T, d *bot.Dispatcher, text string) string {
	t.Helper()
	reply, ok := d.HandleMessage(context.Background(), chatLine(text))
	require.True(t, ok, "expected a reply to %q", text)
	return reply
}

// TestAllCommandHandlersAreWired asserts that every Handler constant
// registered in BuiltinCommands has an entry in the dispatch map, and that
// fixed-reply commands are wired too.
//
// Postcondition: every cmd.Handler in BuiltinCommands() is a key in Handlers().
func TestAllCommandHandlersAreWired(t *testing.T) {
	registered := bot.Handlers()
	for _, cmd := range command.BuiltinCommands() {
		if _, ok := registered[cmd.Handler]; !ok {
			t.Errorf("handler %q is in BuiltinCommands() but missing from Handlers(); add it to handlers.go", cmd.Handler)
		}
	}
	_, ok := registered[command.TextCommand("x").Handler]
	assert.True(t, ok)
}

func TestHandleMessage_PlainChatIsRecordedWithoutReply(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	reply, ok := d.HandleMessage(context.Background(), chatLine("hello chat"))
	assert.False(t, ok)
	assert.Empty(t, reply)
	assert.Equal(t, []string{"1001"}, store.messages)
	assert.Empty(t, store.commands)
}

func TestHandleMessage_UnknownCommand(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	_, ok := d.HandleMessage(context.Background(), chatLine("!doesnotexist 1 2"))
	assert.False(t, ok)
	assert.Len(t, store.messages, 1)
	assert.Empty(t, store.commands, "unknown commands are not counted")
}

func TestHandleMessage_BarePrefixIsChat(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	_, ok := d.HandleMessage(context.Background(), chatLine("! weather"))
	assert.False(t, ok)
}

func TestHandleMessage_RecordsCanonicalCommandName(t *testing.T) {
	store := &fakeStore{}
	d := newDispatcher(t, store)

	say(t, d, "!TRIDENT")
	say(t, d, "!rolltrident")
	assert.Equal(t, []string{"rolltrident", "rolltrident"}, store.commands)
}

func TestHandleMessage_CustomPrefix(t *testing.T) {
	d := newDispatcher(t, &fakeStore{}, func(o *bot.Options) { o.Prefix = "?" })

	_, ok := d.HandleMessage(context.Background(), chatLine("!nomic"))
	assert.False(t, ok)
	assert.Equal(t, "No Microphone.", say(t, d, "?nomic"))
	assert.Equal(t, "Error: Invalid syntax; ?tridentodds {durability}", say(t, d, "?tridentodds"))
}

func TestHandleMessage_RecordingFailureDoesNotBlockReply(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	d := newDispatcher(t, store)

	assert.Equal(t, "No Microphone.", say(t, d, "!nomic"))
	assert.Contains(t, say(t, d, "!rolltrident"), "Your trident has")
}

func TestHandleMessage_LogsCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := testOptions()
	d, err := bot.NewDispatcher(&fakeStore{}, opts, zap.New(core))
	require.NoError(t, err)

	_, ok := d.HandleMessage(context.Background(), chatLine("!nomic"))
	require.True(t, ok)
	entries := logs.FilterMessage("command handled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "msg-1", entries[0].ContextMap()["msg_id"])

	msg := chatLine("!nomic")
	msg.ID = ""
	_, ok = d.HandleMessage(context.Background(), msg)
	require.True(t, ok)
	entries = logs.FilterMessage("command handled").All()
	require.Len(t, entries, 2)
	id, _ := entries[1].ContextMap()["msg_id"].(string)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "msg-1", id)
}

func TestNewDispatcher_TextCollidesWithBuiltin(t *testing.T) {
	opts := testOptions()
	opts.Texts = bot.Texts{"weather": "sunny"}
	_, err := bot.NewDispatcher(&fakeStore{}, opts, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d, err := bot.NewDispatcher(&fakeStore{}, bot.Options{Streamer: "Oskar"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	reply, ok := d.HandleMessage(context.Background(), chatLine("!rollbiome"))
	require.True(t, ok)
	assert.Contains(t, reply, "You got ")
}

func TestHelpListsCommands(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	reply := say(t, d, "!help")
	assert.Equal(t, reply, say(t, d, "!commands"))
	for _, want := range []string{"!weather", "!thunderodds", "!rolltrident", "!nomic", "!commandstats"} {
		assert.Contains(t, reply, want)
	}
}

func TestTextCommands(t *testing.T) {
	d := newDispatcher(t, &fakeStore{})

	assert.Equal(t, "No Microphone.", say(t, d, "!nomic"))
	assert.Contains(t, say(t, d, "!caamel"), "cAAmel")
	assert.Contains(t, say(t, d, "!Route"), "1.20:")
}
