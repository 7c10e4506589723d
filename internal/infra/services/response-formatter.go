package services

import (
	"cancer-support-bot/internal/domain/entities"
	"net/url"
	"strings"
)

type TerminalAction int

const (
	TerminalNone TerminalAction = iota
	TerminalHangup
)

const (
	noInputPrompt  = "Sorry, I didn't catch that."
	speechModel    = "phone_call"
	gatherFinisher = "*"
)

// speechBreakers are markdown and symbol characters speech synthesis reads
// out literally or chokes on.
var speechBreakers = strings.NewReplacer("*", "", "#", "", "_", "", "`", "", "~", "")

// VoiceTransition describes what one voice turn says and does next.
type VoiceTransition struct {
	State     VoiceState
	Statement string
	// Reply, when set, is cleaned and spoken after Statement.
	Reply     *entities.GeneratedReply
	// Closing is spoken after Reply.
	Closing   string

	Listen       bool
	ListenPrompt string
	AllowDigits  bool
	Terminal     TerminalAction
}

// ResponseFormatter builds channel specific outbound artifacts.
type ResponseFormatter struct {
	VoicePersona   string
	Language       string
	GatherTimeout  int
	SpeechTimeout  string
	VoiceActionURL string
}

func NewResponseFormatter(voicePersona, language string, gatherTimeout int, speechTimeout, voiceActionURL string) *ResponseFormatter {
	return &ResponseFormatter{
		VoicePersona:   voicePersona,
		Language:       language,
		GatherTimeout:  gatherTimeout,
		SpeechTimeout:  speechTimeout,
		VoiceActionURL: voiceActionURL,
	}
}

// FormatChat maps a reply onto the chat artifact: the generated body verbatim,
// or the fallback text.
func (f *ResponseFormatter) FormatChat(to string, reply entities.GeneratedReply) entities.ChatResponse {
	return entities.ChatResponse{To: to, Reply: reply.Text(), Generated: reply.Success}
}

// FormatVoice turns a transition into the ordered directive sequence.
func (f *ResponseFormatter) FormatVoice(t VoiceTransition) entities.VoiceResponse {
	var directives []entities.Directive

	if statement := CleanForSpeech(t.Statement); statement != "" {
		directives = append(directives, f.say(statement))
	}
	if t.Reply != nil {
		spoken := CleanForSpeech(t.Reply.Text())
		if spoken == "" {
			// Nothing speakable survived cleanup.
			spoken = CleanForSpeech(entities.FallbackMessage)
		}
		directives = append(directives, f.say(spoken))
	}
	if closing := CleanForSpeech(t.Closing); closing != "" {
		directives = append(directives, f.say(closing))
	}

	if t.Listen {
		directives = append(directives, f.gather(t.ListenPrompt, t.AllowDigits))
		// Reached only when the gather times out without input.
		directives = append(directives,
			f.say(noInputPrompt),
			entities.Directive{Kind: entities.DirectiveRedirect, URL: f.actionURL(StateListening), Method: "POST"},
		)
	}

	if t.Terminal == TerminalHangup {
		directives = append(directives,
			entities.Directive{Kind: entities.DirectivePause, Length: 1},
			entities.Directive{Kind: entities.DirectiveHangup},
		)
	}

	return entities.VoiceResponse{State: string(t.State), Directives: directives}
}

func (f *ResponseFormatter) say(text string) entities.Directive {
	return entities.Directive{Kind: entities.DirectiveSay, Text: text, Voice: f.VoicePersona, Language: f.Language}
}

func (f *ResponseFormatter) gather(prompt string, allowDigits bool) entities.Directive {
	d := entities.Directive{
		Kind:          entities.DirectiveGather,
		Input:         entities.GatherInputSpeech,
		Timeout:       f.GatherTimeout,
		SpeechTimeout: f.SpeechTimeout,
		SpeechModel:   speechModel,
		Language:      f.Language,
		URL:           f.actionURL(StateListening),
		Method:        "POST",
	}
	if allowDigits {
		d.Input = entities.GatherInputSpeechDigits
		d.FinishOnKey = gatherFinisher
	}
	if prompt = CleanForSpeech(prompt); prompt != "" {
		d.Nested = []entities.Directive{f.say(prompt)}
	}
	return d
}

// actionURL points back at the voice webhook and carries the state the next
// request resumes in.
func (f *ResponseFormatter) actionURL(state VoiceState) string {
	base := f.VoiceActionURL
	if base == "" {
		base = "/voice"
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("state", string(state))
	u.RawQuery = q.Encode()
	return u.String()
}

// CleanForSpeech strips characters that break speech synthesis and collapses
// whitespace. "You're doing *great*! #staystrong" becomes
// "You're doing great! staystrong".
func CleanForSpeech(text string) string {
	return strings.Join(strings.Fields(speechBreakers.Replace(text)), " ")
}
