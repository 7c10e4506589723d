package entities

type DirectiveKind string

const (
	DirectiveSay      DirectiveKind = "say"
	DirectiveGather   DirectiveKind = "gather"
	DirectivePause    DirectiveKind = "pause"
	DirectiveHangup   DirectiveKind = "hangup"
	DirectiveRedirect DirectiveKind = "redirect"
)

const (
	GatherInputSpeech       = "speech"
	GatherInputSpeechDigits = "speech dtmf"
)

// Directive is one instruction of a spoken response. Gather directives nest
// the prompt spoken while listening.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	Text     string `json:"text,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Language string `json:"language,omitempty"`

	Input         string `json:"input,omitempty"`
	Timeout       int    `json:"timeout,omitempty"`
	SpeechTimeout string `json:"speech_timeout,omitempty"`
	SpeechModel   string `json:"speech_model,omitempty"`
	FinishOnKey   string `json:"finish_on_key,omitempty"`

	URL    string `json:"url,omitempty"`
	Method string `json:"method,omitempty"`

	Length int `json:"length,omitempty"`

	Nested []Directive `json:"nested,omitempty"`
}

// VoiceResponse is the ordered directive sequence returned for a voice turn.
type VoiceResponse struct {
	State      string      `json:"state"`
	Directives []Directive `json:"directives"`
}

// HasKind reports whether any top level directive is of kind k.
func (v VoiceResponse) HasKind(k DirectiveKind) bool {
	for _, d := range v.Directives {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// SpokenText returns every say text in order, including text nested in gathers.
func (v VoiceResponse) SpokenText() []string {
	var out []string
	var walk func([]Directive)
	walk = func(ds []Directive) {
		for _, d := range ds {
			if d.Kind == DirectiveSay {
				out = append(out, d.Text)
			}
			walk(d.Nested)
		}
	}
	walk(v.Directives)
	return out
}

// ChatResponse is the artifact of a chat turn.
type ChatResponse struct {
	To    string
	Reply string
	// Generated is false when Reply is the fallback message.
	Generated bool
}
