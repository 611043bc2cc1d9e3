package prompt

import "strings"

// IndustryProfile holds what the composer knows about one industry segment.
// Read-only registry, populated at startup.
type IndustryProfile struct {
	Key                   string
	Label                 string
	CommonProcesses       []string
	PreferredIntegrations []string
	PainPoints            []string
	Vocabulary            map[string]string
}

// genericProfile is the fallback used when the industry key is unknown.
var genericProfile = IndustryProfile{
	Key:   "general",
	Label: "negócio em geral",
	CommonProcesses: []string{
		"atendimento a clientes",
		"cobrança e pagamentos",
		"divulgação de produtos e serviços",
	},
	PreferredIntegrations: []string{"whatsapp", "email", "pix", "spreadsheet"},
	PainPoints: []string{
		"tarefas manuais repetitivas",
		"falta de acompanhamento dos clientes",
	},
	Vocabulary: map[string]string{},
}

var industryProfiles = map[string]IndustryProfile{
	"varejo": {
		Key:   "varejo",
		Label: "varejo",
		CommonProcesses: []string{
			"confirmação de pedidos",
			"aviso de promoções",
			"controle de estoque em planilha",
			"cobrança de pagamentos pendentes",
		},
		PreferredIntegrations: []string{"whatsapp", "pix", "spreadsheet", "instagram"},
		PainPoints: []string{
			"clientes que abandonam o carrinho",
			"cobranças manuais demoradas",
		},
		Vocabulary: map[string]string{
			"pedido":  "venda registrada pelo cliente",
			"estoque": "quantidade disponível de produtos",
		},
	},
	"alimentacao": {
		Key:   "alimentacao",
		Label: "alimentação",
		CommonProcesses: []string{
			"recebimento de pedidos pelo WhatsApp",
			"confirmação de entrega",
			"cardápio do dia para clientes frequentes",
		},
		PreferredIntegrations: []string{"whatsapp", "pix", "forms"},
		PainPoints: []string{
			"pedidos perdidos em horário de pico",
			"confirmações manuais de pagamento",
		},
		Vocabulary: map[string]string{
			"comanda": "registro do pedido do cliente",
		},
	},
	"servicos": {
		Key:   "servicos",
		Label: "serviços",
		CommonProcesses: []string{
			"agendamento de atendimentos",
			"lembrete de horário para clientes",
			"envio de orçamentos",
		},
		PreferredIntegrations: []string{"whatsapp", "calendar", "email", "pix"},
		PainPoints: []string{
			"clientes que faltam sem avisar",
			"orçamentos sem resposta",
		},
		Vocabulary: map[string]string{
			"no-show": "cliente que não comparece ao horário marcado",
		},
	},
	"saude": {
		Key:   "saude",
		Label: "saúde",
		CommonProcesses: []string{
			"confirmação de consultas",
			"lembrete de retorno",
			"cadastro de pacientes em planilha",
		},
		PreferredIntegrations: []string{"whatsapp", "calendar", "spreadsheet"},
		PainPoints: []string{
			"faltas em consultas agendadas",
			"fichas de pacientes desatualizadas",
		},
		Vocabulary: map[string]string{
			"retorno": "consulta de acompanhamento",
		},
	},
	"educacao": {
		Key:   "educacao",
		Label: "educação",
		CommonProcesses: []string{
			"cobrança de mensalidades",
			"aviso de aulas e eventos",
			"matrícula por formulário",
		},
		PreferredIntegrations: []string{"whatsapp", "email", "pix", "forms"},
		PainPoints: []string{
			"mensalidades em atraso",
			"comunicação dispersa com responsáveis",
		},
		Vocabulary: map[string]string{
			"mensalidade": "pagamento recorrente do aluno",
		},
	},
}

// ProfileFor returns the profile for an industry key, falling back to the
// generic profile when the key is unknown or empty.
func ProfileFor(industry string) IndustryProfile {
	key := strings.ToLower(strings.TrimSpace(industry))
	if p, ok := industryProfiles[key]; ok {
		return p
	}
	return genericProfile
}
