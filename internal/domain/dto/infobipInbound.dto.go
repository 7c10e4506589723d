package dto

type InboundResponse struct {
	Results             []Result `json:"results"`
	MessageCount        int      `json:"messageCount"`
	PendingMessageCount int      `json:"pendingMessageCount"`
}

type Result struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	IntegrationType string  `json:"integrationType"`
	ReceivedAt      string  `json:"receivedAt"`
	MessageID       string  `json:"messageId"`
	PairedMessageID *string `json:"pairedMessageId"`
	CallbackData    *string `json:"callbackData"`
	Message         Message `json:"message"`
	Contact         Contact `json:"contact"`
}

type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Url  string `json:"url"`
}

type Contact struct {
	Name string `json:"name"`
}

// LastResult returns the most recent inbound message. MessageCount is not
// trusted as an index, the results slice is.
func (r *InboundResponse) LastResult() (Result, bool) {
	if r == nil || len(r.Results) == 0 {
		return Result{}, false
	}
	return r.Results[len(r.Results)-1], true
}
