// Package patterns is the pure-data rule library for the instruction parser:
// ordered intent keyword groups, entity regex families and trigger/action/
// condition rules. Priority lives in the data so it can be tested and tuned
// without touching control flow.
package patterns

import (
	"regexp"
	"strings"

	"fluxo-ai/internal/models"
)

// IntentGroup is one ordered set of keywords mapped to an intent.
type IntentGroup struct {
	Intent   models.Intent
	Keywords []string
}

// IntentGroups is tested in order; the first group with a keyword contained
// in the lower-cased utterance wins. Create comes before question because
// "como" appears in both vocabularies ("como criar" vs "como funciona").
var IntentGroups = []IntentGroup{
	{
		Intent: models.IntentCreateWorkflow,
		Keywords: []string{
			"criar", "crie", "criando",
			"nova automação", "nova automacao", "novo fluxo",
			"automatizar", "automatize", "automatização", "automatizacao",
			"como criar", "como automatizar", "como fazer uma automação",
			"quero que", "preciso que", "gostaria que",
			"montar um fluxo", "configurar uma automação", "configurar uma automacao",
		},
	},
	{
		Intent: models.IntentModifyWorkflow,
		Keywords: []string{
			"alterar", "altere", "mudar", "mude",
			"modificar", "modifique", "editar", "edite",
			"ajustar", "ajuste", "atualizar", "atualize",
			"trocar", "troque", "melhorar", "melhore",
			"otimizar", "otimize", "remover", "remova",
		},
	},
	{
		Intent: models.IntentAskQuestion,
		Keywords: []string{
			"como", "o que", "o quê", "qual", "quais",
			"quando", "onde", "quem", "por que", "por quê", "porque",
			"significa", "?",
		},
	},
	{
		Intent: models.IntentGetHelp,
		Keywords: []string{
			"ajuda", "ajudar", "me ajude", "socorro",
			"não entendi", "nao entendi", "não sei", "nao sei",
			"suporte", "problema", "erro",
			"não funciona", "nao funciona", "parou de funcionar",
		},
	},
}

// --- Entity regex families ---

// EntityRule is one regex family producing entities of a fixed type and
// confidence. Multiple matches all produce separate entities.
type EntityRule struct {
	Type       models.EntityType
	Pattern    *regexp.Regexp
	Confidence float64
	// Normalize maps the matched text to a canonical value; nil keeps the
	// lower-cased match.
	Normalize func(match string) string
}

var (
	timePattern = regexp.MustCompile(`(?i)\b\d{1,2}[:h]\d{2}\b|\b\d{1,2}h\b|\btodos?\s+os?\s+dias?\b|\btodo\s+dia\b|\btoda\s+(segunda|ter[çc]a|quarta|quinta|sexta|s[áa]bado|domingo|semana|manh[ãa]|noite|tarde)\b|\bdiariamente\b|\bsemanalmente\b|\bmensalmente\b|\ba\s+cada\s+\d+\s+(minutos?|horas?|dias?|semanas?)\b`)

	integrationPattern = regexp.MustCompile(`(?i)\b(whatsapp|zap|e-?mail|gmail|pix|planilhas?|sheets|excel|instagram|telegram|mercado\s*pago|crm|calend[áa]rio|agenda|formul[áa]rios?|site|loja\s+virtual)\b`)

	amountPattern = regexp.MustCompile(`(?i)r\$\s?\d+(?:\.\d{3})*(?:,\d{2})?|\b\d+(?:,\d{2})?\s+reais\b`)

	contactPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// integrationAliases maps surface forms to canonical integration names.
var integrationAliases = map[string]string{
	"zap":          "whatsapp",
	"e-mail":       "email",
	"gmail":        "email",
	"planilha":     "spreadsheet",
	"planilhas":    "spreadsheet",
	"sheets":       "spreadsheet",
	"excel":        "spreadsheet",
	"mercado pago": "mercadopago",
	"mercadopago":  "mercadopago",
	"calendário":   "calendar",
	"calendario":   "calendar",
	"agenda":       "calendar",
	"formulário":   "forms",
	"formulario":   "forms",
	"formulários":  "forms",
	"formularios":  "forms",
	"loja virtual": "ecommerce",
}

// EntityRules holds the four independent extraction families. Confidences
// are fixed per family: time 0.9, integration 0.95, amount 0.9, contact 0.95.
var EntityRules = []EntityRule{
	{Type: models.EntityTime, Pattern: timePattern, Confidence: 0.9},
	{Type: models.EntityIntegration, Pattern: integrationPattern, Confidence: 0.95, Normalize: NormalizeIntegration},
	{Type: models.EntityAmount, Pattern: amountPattern, Confidence: 0.9},
	{Type: models.EntityContact, Pattern: contactPattern, Confidence: 0.95},
}

// NormalizeIntegration maps an integration mention to its canonical name.
// The input must already be lower-cased.
func NormalizeIntegration(match string) string {
	match = strings.Join(strings.Fields(match), " ")
	if canonical, ok := integrationAliases[match]; ok {
		return canonical
	}
	return match
}

// --- Trigger rules ---

// TriggerRule matches one trigger kind. Rules are independent tests over the
// raw text; more than one may fire for the same utterance.
type TriggerRule struct {
	Type       models.TriggerType
	Pattern    *regexp.Regexp
	Confidence float64
}

var TriggerRules = []TriggerRule{
	{
		Type:       models.TriggerSchedule,
		Pattern:    regexp.MustCompile(`(?i)\btodos?\s+os?\s+dias?\b|\btodo\s+dia\b|\btoda\s+\w+\b|\bdiariamente\b|\bsemanalmente\b|\bmensalmente\b|\ba\s+cada\s+\d+\b|\b[àa]s?\s+\d{1,2}[h:]|\bagendad\w*\b|\bhor[áa]rio\s+fixo\b`),
		Confidence: 0.85,
	},
	{
		Type:       models.TriggerWhatsAppReceived,
		Pattern:    regexp.MustCompile(`(?i)(receb\w*|chegar?\w*)[^.!?]*\b(whatsapp|zap)\b|\b(whatsapp|zap)\b[^.!?]*\b(receb\w*|chegar?\w*)`),
		Confidence: 0.9,
	},
	{
		Type:       models.TriggerEmailReceived,
		Pattern:    regexp.MustCompile(`(?i)(receb\w*|chegar?\w*)[^.!?]*\be-?mail\b|\be-?mail\b[^.!?]*\b(receb\w*|chegar?\w*)`),
		Confidence: 0.9,
	},
	{
		Type:       models.TriggerFormSubmitted,
		Pattern:    regexp.MustCompile(`(?i)formul[áa]rio\w*[^.!?]*\b(preench\w*|enviad\w*|submet\w*|respond\w*)|\b(preench\w*|respond\w*)[^.!?]*formul[áa]rio`),
		Confidence: 0.85,
	},
}

// ManualTriggerVerbs is the fallback: a generic create/do/execute verb with
// no recognizable trigger yields a manual trigger at 0.6 confidence.
var ManualTriggerVerbs = regexp.MustCompile(`(?i)\b(criar|crie|fazer|fa[çc]a|executar|execute|gerar|gere|rodar|rode|disparar|dispare)\b`)

const ManualTriggerConfidence = 0.6

// DefaultScheduleTime is embedded in schedule triggers when the utterance
// carries no time entity.
const DefaultScheduleTime = "09:00"

// --- Action rules ---

type ActionRule struct {
	Type       models.ActionType
	Pattern    *regexp.Regexp
	Confidence float64
}

var ActionRules = []ActionRule{
	{
		Type:       models.ActionSendWhatsApp,
		Pattern:    regexp.MustCompile(`(?i)\b(enviar?|envie|mandar?|mande|dispar\w*|responder?|responda)\b[^.!?]*\b(whatsapp|zap)\b|\b(whatsapp|zap)\b[^.!?]*\b(enviar?|envie|mandar?|mande)\b`),
		Confidence: 0.9,
	},
	{
		Type:       models.ActionSendEmail,
		Pattern:    regexp.MustCompile(`(?i)\b(enviar?|envie|mandar?|mande|dispar\w*|responder?|responda)\b[^.!?]*\be-?mail\b|\be-?mail\b[^.!?]*\b(enviar?|envie|mandar?|mande)\b`),
		Confidence: 0.9,
	},
	{
		Type:       models.ActionGeneratePix,
		Pattern:    regexp.MustCompile(`(?i)\b(gerar?|gere|criar|crie|enviar?|envie|cobrar?|cobre)\b[^.!?]*\bpix\b|\bpix\b[^.!?]*\b(cobran[çc]a|gerad\w*)\b|\bcobran[çc]a\b[^.!?]*\bpix\b`),
		Confidence: 0.9,
	},
	{
		Type:       models.ActionSaveData,
		Pattern:    regexp.MustCompile(`(?i)\b(salvar?|salve|guardar?|guarde|registrar?|registre|armazenar?|armazene|anotar?|anote)\b[^.!?]*\b(dados?|planilha\w*|sheets|excel|crm|cadastro|contato\w*)\b|\bna\s+planilha\b`),
		Confidence: 0.85,
	},
	{
		Type:       models.ActionSendNotification,
		Pattern:    regexp.MustCompile(`(?i)\b(notificar?|notifique|avisar?|avise|alertar?|alerte|lembrar?|lembre)\b|\blembrete\w*\b|\bnotifica[çc][ãa]o\w*\b`),
		Confidence: 0.85,
	},
}

// --- Condition rules ---

type ConditionRule struct {
	Type       models.ConditionType
	Pattern    *regexp.Regexp
	Confidence float64
}

var ConditionRules = []ConditionRule{
	{
		Type:       models.ConditionIfThen,
		Pattern:    regexp.MustCompile(`(?i)\bse\b[^.!?]{2,}\b(ent[ãa]o|sen[ãa]o)\b|\bcaso\b\s+\S|\bse\s+(o|a|os|as|n[ãa]o|cliente|pedido|pagamento|resposta)\b`),
		Confidence: 0.75,
	},
	{
		Type:       models.ConditionDelay,
		Pattern:    regexp.MustCompile(`(?i)\b(esperar?|espere|aguardar?|aguarde)\b|\bdepois\s+de\s+\d+|\bap[óo]s\s+\d+\s*(minutos?|horas?|dias?)`),
		Confidence: 0.75,
	},
	{
		Type:       models.ConditionLoop,
		Pattern:    regexp.MustCompile(`(?i)\bpara\s+cada\b|\brepetir?\b|\brepita\b|\bem\s+loop\b|\btodos\s+os\s+itens\b|\bum\s+por\s+um\b`),
		Confidence: 0.7,
	},
}

// --- Workflow naming ---

// NameRule derives a workflow name from domain keywords, tested in priority
// order: WhatsApp > Email > PIX/billing > customer service > generic.
type NameRule struct {
	Pattern *regexp.Regexp
	Name    string
}

var NameRules = []NameRule{
	{regexp.MustCompile(`(?i)\b(whatsapp|zap)\b`), "Automação de WhatsApp"},
	{regexp.MustCompile(`(?i)\be-?mail\b|\bgmail\b`), "Automação de E-mail"},
	{regexp.MustCompile(`(?i)\bpix\b|\bcobran[çc]a\b|\bpagamento\w*\b|\bboleto\w*\b`), "Automação de Cobrança"},
	{regexp.MustCompile(`(?i)\batendimento\b|\bcliente\w*\b|\bsuporte\b`), "Automação de Atendimento"},
}

const DefaultWorkflowName = "Automação Personalizada"
