package dto

type InfobipTextMessage struct {
	From    string             `json:"from"`
	To      string             `json:"to"`
	Content InfobipTextContent `json:"content"`
}

type InfobipTextContent struct {
	Text string `json:"text"`
}

type InfobipSendResponse struct {
	To        string `json:"to"`
	MessageID string `json:"messageId"`
	Status    struct {
		GroupName   string `json:"groupName"`
		Description string `json:"description"`
	} `json:"status"`
}
