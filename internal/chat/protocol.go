package chat

import (
	"strings"

	"gopkg.in/irc.v4"
)

// Capabilities requested after login.
var Capabilities = []string{"twitch.tv/tags", "twitch.tv/commands"}

func passCommand(password string) *irc.Message {
	return &irc.Message{Command: "PASS", Params: []string{password}}
}

func nickCommand(nick string) *irc.Message {
	return &irc.Message{Command: "NICK", Params: []string{strings.ToLower(nick)}}
}

func capReq(caps ...string) *irc.Message {
	return &irc.Message{Command: "CAP", Params: []string{"REQ", strings.Join(caps, " ")}}
}

func joinCommand(channel string) *irc.Message {
	return &irc.Message{Command: "JOIN", Params: []string{ChannelName(channel)}}
}

func pongCommand(token string) *irc.Message {
	return &irc.Message{Command: "PONG", Params: []string{token}}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// privmsg builds a PRIVMSG of text to channel. Line breaks in text become
// spaces so one reply never spans protocol lines.
func privmsg(channel, text string) *irc.Message {
	return &irc.Message{Command: "PRIVMSG", Params: []string{ChannelName(channel), lineBreaks.Replace(text)}}
}

// ChannelName returns channel with a single leading '#', lowercased.
func ChannelName(channel string) string {
	return "#" + strings.ToLower(strings.TrimPrefix(channel, "#"))
}

// senderNick returns the nickname of the message source, or "" for a
// server line without a prefix.
func senderNick(m *irc.Message) string {
	if m.Prefix == nil {
		return ""
	}
	return m.Prefix.Name
}

// FromIRC converts a PRIVMSG into a Message.
func FromIRC(m *irc.Message) Message {
	login := senderNick(m)
	msg := Message{
		ID:          m.Tags["id"],
		Channel:     strings.TrimPrefix(m.Param(0), "#"),
		UserID:      m.Tags["user-id"],
		Login:       login,
		DisplayName: m.Tags["display-name"],
		Text:        m.Trailing(),
	}
	if msg.UserID == "" {
		msg.UserID = login
	}
	if msg.DisplayName == "" {
		msg.DisplayName = login
	}
	return msg
}
