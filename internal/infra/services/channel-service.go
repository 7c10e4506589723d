package services

import (
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type ChatTurnState string

const (
	ChatAwaitingReply ChatTurnState = "awaiting_reply"
	ChatDone          ChatTurnState = "done"
)

// ChannelService handles chat turns. Every inbound message is processed on
// its own; nothing is remembered between messages.
type ChannelService struct {
	Logger          *logger.Logger
	PromptBuilder   *PromptBuilder
	QueryAIService  *QueryAIService
	Formatter       *ResponseFormatter
	Gateway         Iservices.IDispatchGateway
	DispatchTimeout time.Duration
}

func NewChannelService(logger *logger.Logger, promptBuilder *PromptBuilder, queryAIService *QueryAIService, formatter *ResponseFormatter, gateway Iservices.IDispatchGateway, dispatchTimeout time.Duration) *ChannelService {
	return &ChannelService{
		Logger:          logger,
		PromptBuilder:   promptBuilder,
		QueryAIService:  queryAIService,
		Formatter:       formatter,
		Gateway:         gateway,
		DispatchTimeout: dispatchTimeout,
	}
}

// HandleChatTurn builds the prompt, calls the generator and returns the reply
// artifact. Empty text is not special-cased. On generation failure the reply
// is the fallback message.
func (cs *ChannelService) HandleChatTurn(ctx context.Context, u entities.Utterance) entities.ChatResponse {
	fields := logrus.Fields{"channel": entities.ChannelChat, "from": u.From}
	cs.Logger.Debug("Chat turn started", fields, logrus.Fields{"state": ChatAwaitingReply})

	prompt, err := cs.PromptBuilder.BuildPrompt(u, entities.ConversationState{})
	if err != nil {
		// Chat prompts are always built; this only guards future builder changes.
		cs.Logger.Error(fmt.Sprintf("Failed to build prompt: %v", err), fields)
		return cs.Formatter.FormatChat(u.From, entities.GeneratedReply{Fallback: entities.FallbackMessage})
	}

	reply := cs.QueryAIService.ExecuteQueryAI(ctx, prompt, fields)
	response := cs.Formatter.FormatChat(u.From, reply)

	cs.Logger.Debug("Chat turn finished", fields, logrus.Fields{"state": ChatDone, "generated": response.Generated})
	return response
}

// SendReply dispatches a reply through the gateway, bounded by the dispatch
// timeout. Errors are returned to the caller.
func (cs *ChannelService) SendReply(ctx context.Context, response entities.ChatResponse) (string, error) {
	if cs.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.DispatchTimeout)
		defer cancel()
	}
	return cs.Gateway.SendMessage(ctx, response.To, response.Reply)
}

// WebhookService runs a full chat turn and sends the reply through the
// gateway. It is meant to run detached from the inbound request: failures are
// logged and dropped, never retried.
func (cs *ChannelService) WebhookService(u entities.Utterance) {
	defer func() {
		if r := recover(); r != nil {
			cs.Logger.Error(fmt.Sprintf("Recovered from panic: %v", r))
		}
	}()

	ctx := context.Background()
	response := cs.HandleChatTurn(ctx, u)

	messageID, err := cs.SendReply(ctx, response)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to send WhatsApp message to %s: %s", response.To, err.Error()))
		return
	}

	cs.Logger.Info(fmt.Sprintf("Sent AI response to WhatsApp number: %s", response.To), logrus.Fields{"message_id": messageID})
}
