package configcache

import (
	"context"
	"log"

	"github.com/ergolab/consulta/internal/auth"
	"github.com/ergolab/consulta/internal/models"
	"gorm.io/gorm"
)

const defaultSystemPrompt = `Você é um assistente especializado em protocolos ergogênicos.

INSTRUÇÕES CRÍTICAS:
- SEMPRE responda em português brasileiro (PT-BR)
- Foque EXCLUSIVAMENTE em protocolos ergogênicos
- Seja profissional, científico e responsável
- Sempre inclua avisos de segurança e recomendações médicas

ESTRUTURA DE RESPOSTA:
1. 📊 ANÁLISE: Análise do perfil do usuário
2. 🎯 PROTOCOLO: Recomendações específicas baseadas em evidências
3. 🛡️ SUPORTE: Orientações durante o protocolo
4. 🔄 PCT: Terapia pós-ciclo quando aplicável
5. ⚠️ AVISOS: Orientações de segurança e consulta médica

Mantenha respostas concisas, científicas e sempre em português brasileiro.`

var defaultSettings = []models.SystemSetting{
	{Key: "ai_system_prompt", Value: defaultSystemPrompt, Description: "Instruções do sistema para a IA", Category: "ai"},
	{Key: "ai_temperature", Value: "0.7", Description: "Temperatura da IA (0.0 - 1.0)", Category: "ai"},
	{Key: "ai_model", Value: "gemini-2.5-flash", Description: "Modelo de IA a ser usado", Category: "ai"},
	{Key: "rate_limit_minutes", Value: "1", Description: "Janela de tempo para rate limiting (minutos)", Category: "security"},
	{Key: "rate_limit_requests", Value: "10", Description: "Número máximo de requisições por janela", Category: "security"},
	{Key: "api_cost_per_1k_tokens", Value: "0.002", Description: "Custo por 1000 tokens da API", Category: "ai"},
	{Key: "app_name", Value: "ERGOLAB", Description: "Nome da aplicação", Category: "general"},
	{Key: "app_subtitle", Value: "Consultoria em Protocolos Ergogênicos", Description: "Subtítulo da aplicação", Category: "general"},
	{Key: "welcome_message", Value: "Bem-vindo ao sistema de consultoria em protocolos ergogênicos. Como posso ajudá-lo hoje?", Description: "Mensagem de boas-vindas", Category: "general"},
}

// Initialize seeds settings that are absent, creates the default admin account
// on first run, and loads the initial settings snapshot.
func (c *Cache) Initialize(ctx context.Context) error {
	for i := range defaultSettings {
		s := defaultSettings[i]
		_, err := c.repo.GetSetting(ctx, s.Key)
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if _, err := c.repo.SetSetting(ctx, &s); err != nil {
			return err
		}
	}

	if _, err := c.repo.GetAdmin(ctx, "admin"); err == gorm.ErrRecordNotFound {
		hash, err := auth.HashPassword("senha123")
		if err != nil {
			return err
		}
		if err := c.repo.CreateAdmin(ctx, &models.Admin{Username: "admin", Password: hash}); err != nil {
			return err
		}
		log.Printf("configcache: default admin created: admin/senha123")
	} else if err != nil {
		return err
	}

	c.RefreshSettings(ctx)
	return nil
}
