package entity

// Guest invitado de la boda
type Guest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Companions int    `json:"companion"`
	Table      string `json:"table,omitempty"`
	Response   string `json:"response,omitempty"`
}

// Meeting reunión o tarea del calendario de la boda.
// Type distingue "task" de "meeting"; las fechas van siempre en ISO.
type Meeting struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	Desc     string `json:"desc,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// Movement movimiento del presupuesto (ingreso o gasto)
type Movement struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Type   string  `json:"type"`
}

// Tipos de movimiento
const (
	MovementIncome  = "income"
	MovementExpense = "expense"
)

// Supplier proveedor devuelto por la búsqueda del backend
type Supplier struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Profile perfil de la boda. Es un documento libre: la información de la
// ceremonia vive bajo la clave "weddingInfo".
type Profile map[string]any

// WeddingInfo devuelve el submapa weddingInfo, creándolo si no existe
func (p Profile) WeddingInfo() map[string]any {
	if info, ok := p["weddingInfo"].(map[string]any); ok {
		return info
	}
	info := map[string]any{}
	p["weddingInfo"] = info
	return info
}
