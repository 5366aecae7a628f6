package http

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"medication-bot/domain"
	"medication-bot/message"
)

// fallbackResponse is sent if a response cannot be encoded.
var fallbackResponse = []byte(`{"version":"2.0","template":{"outputs":[{"simpleText":{"text":"` + message.ServerError + `"}}]}}`)

// writeSkillResponse always answers 200: the chat platform renders the
// envelope whatever happened on our side.
func writeSkillResponse(w http.ResponseWriter, resp domain.SkillResponse) {
	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
		buf.Reset()
		buf.Write(fallbackResponse)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeSkillText(w http.ResponseWriter, text string, quickReplies ...domain.QuickReply) {
	writeSkillResponse(w, domain.NewTextResponse(text, quickReplies...))
}
