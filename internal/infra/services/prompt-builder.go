package services

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/entities"
	"fmt"
	"strings"
)

const personaPreamble = `You are a compassionate and knowledgeable cancer support chatbot. Your role is to provide emotional support,
accurate information, and practical guidance to cancer patients and their caregivers.

Guidelines for your response:
1. Be empathetic and supportive while maintaining professional boundaries
2. Provide accurate, evidence-based information when appropriate
3. Never diagnose; encourage seeking professional medical advice for specific medical questions
4. Use clear, simple language
5. Keep responses concise but warm
6. Avoid making promises or guarantees
7. Focus on emotional support and practical coping strategies`

const voiceGuidelines = `This conversation is a phone call and your reply will be read aloud.
Respond in one or two short sentences, without lists, symbols or formatting,
and end with a brief follow-up question.`

const continuedCallGuideline = `The caller has already been greeted on this call; do not greet them again.`

// PromptBuilder turns an utterance into the prompt sent to the text generator.
//
// The utterance is embedded verbatim between quotes. It is not sanitised
// against prompt injection; only its length is capped.
type PromptBuilder struct {
	MaxUtteranceLength int
}

func NewPromptBuilder(maxUtteranceLength int) *PromptBuilder {
	return &PromptBuilder{MaxUtteranceLength: maxUtteranceLength}
}

// BuildPrompt returns the prompt for u. Voice utterances without text return
// apperrors.ErrEmptyInput; chat utterances are always built, even when empty.
func (pb *PromptBuilder) BuildPrompt(u entities.Utterance, state entities.ConversationState) (string, error) {
	if u.Channel == entities.ChannelVoice && strings.TrimSpace(u.Text) == "" {
		return "", apperrors.ErrEmptyInput
	}

	var sb strings.Builder
	sb.WriteString(personaPreamble)
	sb.WriteString("\n\n")

	if u.Channel == entities.ChannelVoice {
		sb.WriteString(voiceGuidelines)
		sb.WriteString("\n")
		if state.Greeted || state.TurnCount > 0 {
			sb.WriteString(continuedCallGuideline)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "User Message: \"%s\"\n\n", pb.capLength(u.Text))
	sb.WriteString("Please provide a supportive and appropriate response.")

	return sb.String(), nil
}

func (pb *PromptBuilder) capLength(text string) string {
	if pb.MaxUtteranceLength <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= pb.MaxUtteranceLength {
		return text
	}
	return string(runes[:pb.MaxUtteranceLength])
}
