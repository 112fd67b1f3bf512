package services

import "strings"

type chatRule struct {
	keywords []string
	answer   string
}

// chatRules are checked in order; the first rule with a keyword contained in
// the question wins.
var chatRules = []chatRule{
	{
		keywords: []string{"saldo", "transporte"},
		answer:   "Para consultar seu saldo de transporte, use o endpoint /api/v1/transport/balance.",
	},
	{
		keywords: []string{"documento"},
		answer:   "Você pode gerenciar seus documentos digitais nos endpoints em /api/v1/documents.",
	},
	{
		keywords: []string{"serviço", "prefeitura"},
		answer:   "Esta API simula alguns serviços da prefeitura. Quais serviços específicos você procura?",
	},
	{
		keywords: []string{"olá", "oi", "ajuda"},
		answer:   "Olá! Como posso ajudar com sua carteira digital municipal?",
	},
}

const chatFallback = "Desculpe, não entendi sua pergunta. Posso ajudar com informações sobre saldo de transporte ou documentos digitais?"

// ChatbotService answers questions from a fixed keyword table. It is
// stateless and needs no identity.
type ChatbotService struct{}

func NewChatbotService() *ChatbotService {
	return &ChatbotService{}
}

// Answer matches keywords case-insensitively as substrings of question.
func (s *ChatbotService) Answer(question string) string {
	q := strings.ToLower(question)
	for _, r := range chatRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.answer
			}
		}
	}
	return chatFallback
}
