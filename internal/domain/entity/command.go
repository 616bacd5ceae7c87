package entity

// Entidades sobre las que actúan los comandos
const (
	EntityTask     = "task"
	EntityMeeting  = "meeting"
	EntityGuest    = "guest"
	EntityMovement = "movement"
	EntitySupplier = "supplier"
	EntityTable    = "table"
	EntityConfig   = "config"
)

// Command instrucción estructurada producida por el parser local o por la IA
type Command struct {
	Entity  string         `json:"entity"`
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// DialogResult respuesta del backend /api/ai/parse-dialog. El backend puede
// devolver reply y error a la vez (error parcial con datos aprovechables).
type DialogResult struct {
	Reply     string    `json:"reply,omitempty"`
	Error     string    `json:"error,omitempty"`
	Details   string    `json:"details,omitempty"`
	Extracted Extracted `json:"extracted,omitempty"`
}

// Extracted datos estructurados extraídos por la IA del texto del usuario.
// budgetMovements es el alias antiguo de movements.
type Extracted struct {
	Commands        []Command           `json:"commands,omitempty"`
	Guests          []ExtractedGuest    `json:"guests,omitempty"`
	Tasks           []ExtractedEvent    `json:"tasks,omitempty"`
	Meetings        []ExtractedEvent    `json:"meetings,omitempty"`
	Movements       []ExtractedMovement `json:"movements,omitempty"`
	BudgetMovements []ExtractedMovement `json:"budgetMovements,omitempty"`
}

// Empty indica que la IA no extrajo nada
func (e Extracted) Empty() bool {
	return len(e.Commands) == 0 && len(e.Guests) == 0 && len(e.Tasks) == 0 &&
		len(e.Meetings) == 0 && len(e.Movements) == 0 && len(e.BudgetMovements) == 0
}

// ExtractedGuest invitado tal y como llega de la IA
type ExtractedGuest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Companions int    `json:"companions"`
	Table      string `json:"table"`
}

// ExtractedEvent tarea o reunión tal y como llega de la IA. La fecha puede
// venir en varios campos según la versión del backend.
type ExtractedEvent struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Due         string `json:"due"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	When        string `json:"when"`
	Begin       string `json:"begin"`
	Until       string `json:"until"`
}

// ExtractedMovement movimiento tal y como llega de la IA. Amount puede llegar
// como número o como texto.
type ExtractedMovement struct {
	Concept string `json:"concept"`
	Name    string `json:"name"`
	Amount  any    `json:"amount"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}
