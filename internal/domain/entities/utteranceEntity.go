package entities

import "strings"

type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelVoice Channel = "voice"
)

type InputMode string

const (
	InputModeNone   InputMode = ""
	InputModeSpeech InputMode = "speech"
	InputModeDigits InputMode = "dtmf"
)

// Utterance is one inbound unit of user expression. It lives for one request.
type Utterance struct {
	Text      string
	Digits    string
	Channel   Channel
	From      string
	CallSID   string
	InputMode InputMode
	// ResumeState is the voice state echoed back through the action URL of
	// the previous response. It lets a call continue when its session was evicted.
	ResumeState string
}

// IsEmpty reports whether the utterance carries neither text nor digits.
func (u Utterance) IsEmpty() bool {
	return strings.TrimSpace(u.Text) == "" && strings.TrimSpace(u.Digits) == ""
}
