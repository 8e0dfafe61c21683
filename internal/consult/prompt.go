package consult

import (
	"fmt"
	"strings"

	"github.com/ergolab/consulta/internal/models"
)

const historyWindow = 5

func profileBlock(u *models.User) string {
	return fmt.Sprintf(`PERFIL DO USUÁRIO:
- Gênero: %s
- Objetivo: %s
- Preferências: %s
- Idade: %d anos
- Experiência: %d anos`,
		u.Gender, u.Goal, strings.Join(u.Preferences, ", "), u.Age, u.Experience)
}

func historyBlock(history []models.Conversation) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, h := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", h.Sender, h.Message))
	}
	return strings.Join(lines, "\n")
}

func chatPrompt(u *models.User, history []models.Conversation, message string) string {
	return fmt.Sprintf(`
%s

HISTÓRICO DA CONVERSA:
%s

PERGUNTA ATUAL: %s

Responda em português brasileiro com base no perfil e histórico fornecidos.`,
		profileBlock(u), historyBlock(history), message)
}

func analysisPrompt(u *models.User) string {
	return fmt.Sprintf(`Analise este perfil de usuário e forneça uma análise inicial personalizada:

%s

Forneça uma análise completa seguindo a estrutura de resposta padrão.`, profileBlock(u))
}

func knowledgeBlock(protocols []models.Protocol, products []models.Product, entries []models.KnowledgeEntry) string {
	var b strings.Builder

	if len(protocols) > 0 {
		b.WriteString("PROTOCOLOS RECOMENDADOS PARA ESTE PERFIL:\n")
		for _, p := range protocols {
			fmt.Fprintf(&b, "- %s (%s, duração: %s)", p.Title, p.Category, p.Duration)
			if len(p.ProtocolSteps) > 0 {
				fmt.Fprintf(&b, ": %s", strings.Join(p.ProtocolSteps, "; "))
			}
			if p.Warnings != "" {
				fmt.Fprintf(&b, " [avisos: %s]", p.Warnings)
			}
			b.WriteString("\n")
		}
	}

	if len(products) > 0 {
		b.WriteString("\nPRODUTOS DISPONÍVEIS:\n")
		for _, p := range products {
			fmt.Fprintf(&b, "- %s (%s)", p.Name, p.Category)
			if p.DosageInfo != "" {
				fmt.Fprintf(&b, ", dosagem: %s", p.DosageInfo)
			}
			if p.Contraindications != "" {
				fmt.Fprintf(&b, ", contraindicações: %s", p.Contraindications)
			}
			b.WriteString("\n")
		}
	}

	if len(entries) > 0 {
		b.WriteString("\nDIRETRIZES:\n")
		for _, k := range entries {
			fmt.Fprintf(&b, "- %s: %s\n", k.Title, k.Content)
		}
	}

	return b.String()
}

func consultationPrompt(u *models.User, history []models.Conversation, message, knowledge string) string {
	return fmt.Sprintf(`
%s

BASE DE CONHECIMENTO:
%s

HISTÓRICO DA CONVERSA:
%s

PERGUNTA ATUAL: %s

Responda em português brasileiro com base no perfil, na base de conhecimento e no histórico fornecidos.`,
		profileBlock(u), knowledge, historyBlock(history), message)
}
