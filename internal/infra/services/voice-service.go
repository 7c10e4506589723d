package services

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type VoiceState string

const (
	StateGreeting   VoiceState = "greeting"
	StateListening  VoiceState = "listening"
	StateResponding VoiceState = "responding"
	StateEnding     VoiceState = "ending"
	StateError      VoiceState = "error"
)

const terminatingDigit = "#"

const (
	greetingPrompt = "Hello, you are speaking with the cancer support bot. Please tell me how I can assist you."
	digitsPrompt   = "Please say your question out loud, or press the pound key to end the call."
	silencePrompt  = "I'm still here. Please tell me how I can help you."
	closingMessage = "Thank you for calling. Please take care of yourself, and remember you can reach out any time. Goodbye."
	silenceClosing = "I haven't heard anything for a while, so I'll end the call here. Please call back any time. Goodbye."
	failureClosing = "Goodbye for now."
)

// VoiceService is the voice channel state machine. Call state lives in the
// session store keyed by call SID.
type VoiceService struct {
	Logger         *logger.Logger
	PromptBuilder  *PromptBuilder
	QueryAIService *QueryAIService
	Formatter      *ResponseFormatter
	Sessions       Iservices.ISessionStore
	RetryCap       int
	SilenceCap     int
	terminators    []string
}

func NewVoiceService(logger *logger.Logger, promptBuilder *PromptBuilder, queryAIService *QueryAIService, formatter *ResponseFormatter, sessions Iservices.ISessionStore, terminationPhrases []string, retryCap, silenceCap int) *VoiceService {
	vs := &VoiceService{
		Logger:         logger,
		PromptBuilder:  promptBuilder,
		QueryAIService: queryAIService,
		Formatter:      formatter,
		Sessions:       sessions,
		RetryCap:       retryCap,
		SilenceCap:     silenceCap,
	}
	for _, phrase := range terminationPhrases {
		if phrase = normalizeSpeech(phrase); phrase != "" {
			vs.terminators = append(vs.terminators, phrase)
		}
	}
	return vs
}

// HandleVoiceTurn processes one voice webhook request and returns the
// directives to speak. The response State names the state that handled the turn.
func (vs *VoiceService) HandleVoiceTurn(ctx context.Context, u entities.Utterance) entities.VoiceResponse {
	state := vs.loadState(u)
	speech := strings.TrimSpace(u.Text)
	digits := strings.TrimSpace(u.Digits)
	fields := logrus.Fields{"channel": entities.ChannelVoice, "call_sid": u.CallSID, "from": u.From, "turn": state.TurnCount}

	switch {
	case u.IsEmpty() && !state.Greeted:
		return vs.greet(state, fields)
	case vs.IsTermination(speech, digits):
		return vs.end(state, fields)
	case speech != "":
		return vs.respond(ctx, u, state, fields)
	case digits != "":
		return vs.repromptDigits(state, fields)
	default:
		return vs.handleSilence(state, fields)
	}
}

// IsTermination reports whether the caller asked to end the call, either by
// pressing the terminating digit or by speech that contains a termination
// phrase anywhere, ignoring case.
func (vs *VoiceService) IsTermination(speech, digits string) bool {
	if strings.Contains(digits, terminatingDigit) {
		return true
	}
	normalized := normalizeSpeech(speech)
	if normalized == "" {
		return false
	}
	for _, phrase := range vs.terminators {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func (vs *VoiceService) loadState(u entities.Utterance) entities.ConversationState {
	if state, ok := vs.Sessions.Get(u.CallSID); ok {
		return state
	}
	state := entities.NewConversationState(u.CallSID)
	// A resume state means we already answered this call once; the session
	// was evicted but the caller has been greeted.
	if u.ResumeState != "" {
		state.Greeted = true
	}
	return state
}

func (vs *VoiceService) greet(state entities.ConversationState, fields logrus.Fields) entities.VoiceResponse {
	state.Greeted = true
	vs.Sessions.Put(state)

	vs.Logger.Info("Greeting caller", fields)
	return vs.Formatter.FormatVoice(VoiceTransition{
		State:        StateGreeting,
		Listen:       true,
		ListenPrompt: greetingPrompt,
		AllowDigits:  true,
	})
}

func (vs *VoiceService) end(state entities.ConversationState, fields logrus.Fields) entities.VoiceResponse {
	vs.Sessions.Delete(state.CallSID)

	vs.Logger.Info("Caller ended the conversation", fields)
	return vs.Formatter.FormatVoice(VoiceTransition{
		State:     StateEnding,
		Statement: closingMessage,
		Terminal:  TerminalHangup,
	})
}

func (vs *VoiceService) respond(ctx context.Context, u entities.Utterance, state entities.ConversationState, fields logrus.Fields) entities.VoiceResponse {
	prompt, err := vs.PromptBuilder.BuildPrompt(u, state)
	if err != nil {
		return vs.handleSilence(state, fields)
	}

	reply := vs.QueryAIService.ExecuteQueryAI(ctx, prompt, fields)
	state.Greeted = true
	state.TurnCount++
	state.SilentTurns = 0

	if reply.Success {
		state.GenerationFailures = 0
		vs.Sessions.Put(state)
		return vs.Formatter.FormatVoice(VoiceTransition{
			State:       StateResponding,
			Reply:       &reply,
			Listen:      true,
			AllowDigits: true,
		})
	}

	state.GenerationFailures++
	if state.GenerationFailures <= vs.RetryCap {
		vs.Sessions.Put(state)
		vs.Logger.Warn("Generation failed, offering a retry", fields, logrus.Fields{"failures": state.GenerationFailures})
		return vs.Formatter.FormatVoice(VoiceTransition{
			State:       StateError,
			Reply:       &reply,
			Listen:      true,
			AllowDigits: true,
		})
	}

	vs.Sessions.Delete(state.CallSID)
	vs.Logger.Warn("Generation retry budget exhausted, hanging up", fields, logrus.Fields{"failures": state.GenerationFailures})
	return vs.Formatter.FormatVoice(VoiceTransition{
		State:    StateError,
		Reply:    &reply,
		Closing:  failureClosing,
		Terminal: TerminalHangup,
	})
}

func (vs *VoiceService) repromptDigits(state entities.ConversationState, fields logrus.Fields) entities.VoiceResponse {
	state.Greeted = true
	vs.Sessions.Put(state)

	vs.Logger.Debug("Keypad input without a terminating digit", fields)
	return vs.Formatter.FormatVoice(VoiceTransition{
		State:        StateListening,
		Listen:       true,
		ListenPrompt: digitsPrompt,
		AllowDigits:  true,
	})
}

func (vs *VoiceService) handleSilence(state entities.ConversationState, fields logrus.Fields) entities.VoiceResponse {
	state.Greeted = true
	state.SilentTurns++

	vs.Logger.Debug(apperrors.ErrEmptyInput.Error(), fields, logrus.Fields{"silent_turns": state.SilentTurns})

	if state.SilentTurns > vs.SilenceCap {
		vs.Sessions.Delete(state.CallSID)
		return vs.Formatter.FormatVoice(VoiceTransition{
			State:     StateEnding,
			Statement: silenceClosing,
			Terminal:  TerminalHangup,
		})
	}

	vs.Sessions.Put(state)
	return vs.Formatter.FormatVoice(VoiceTransition{
		State:        StateListening,
		Listen:       true,
		ListenPrompt: silencePrompt,
		AllowDigits:  true,
	})
}

func normalizeSpeech(text string) string {
	text = strings.ReplaceAll(text, "’", "'")
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
