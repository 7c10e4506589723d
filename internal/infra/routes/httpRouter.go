package routes

import (
	"cancer-support-bot/internal/infra/handlers"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux             *mux.Router
	HttpHandler     *handlers.HttpHandlers
	DispatchHandler *handlers.DispatchHandlers
	InfobipHandler  *handlers.InfobipHandlers
	UserHandler     *handlers.UserHandlers
}

// NewRoutes wires the handlers. InfobipHandler and UserHandler are optional;
// their routes are only mounted when they are set.
func NewRoutes(mux *mux.Router, httpHandler *handlers.HttpHandlers, dispatchHandler *handlers.DispatchHandlers, infobipHandler *handlers.InfobipHandlers, userHandler *handlers.UserHandlers) *Routes {
	return &Routes{mux, httpHandler, dispatchHandler, infobipHandler, userHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/whatsapp", r.HttpHandler.ChatWebhook).Methods(http.MethodPost)
	r.Mux.HandleFunc("/receive_sms", r.HttpHandler.ChatWebhook).Methods(http.MethodPost)
	r.Mux.HandleFunc("/voice", r.HttpHandler.VoiceWebhook).Methods(http.MethodPost)

	r.Mux.HandleFunc("/send_message", r.DispatchHandler.SendMessage).Methods(http.MethodPost)
	r.Mux.HandleFunc("/make_call", r.DispatchHandler.MakeCall).Methods(http.MethodPost)

	if r.InfobipHandler != nil {
		r.Mux.HandleFunc("/infobip/webhook", r.InfobipHandler.InfoBipWebhook)
	}

	if r.UserHandler != nil {
		r.Mux.HandleFunc("/sign_up", r.UserHandler.SignUp).Methods(http.MethodPost)
		r.Mux.HandleFunc("/users/{phone}", r.UserHandler.GetUser).Methods(http.MethodGet)
		r.Mux.HandleFunc("/users/{phone}", r.UserHandler.UpdateUser).Methods(http.MethodPut)
		r.Mux.HandleFunc("/users/{phone}/treatments", r.UserHandler.AddTreatmentDate).Methods(http.MethodPost)
		r.Mux.HandleFunc("/users/{phone}/messages", r.UserHandler.SendUserMessage).Methods(http.MethodPost)
	}

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
