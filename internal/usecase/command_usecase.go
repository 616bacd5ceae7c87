package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

// CommandResult desenlace de un comando: aplicado, ignorado o fallido.
// Cada comando es independiente; un fallo no corta el resto del lote.
type CommandResult struct {
	Command entity.Command
	Applied bool
	Reason  string
	Err     error
}

// CommandUseCase aplica comandos estructurados sobre las colecciones locales
type CommandUseCase interface {
	// ApplyCommands aplica el lote en orden y devuelve el desenlace por comando
	ApplyCommands(ctx context.Context, commands []entity.Command) []CommandResult
}

type commandUseCase struct {
	planner  repository.PlannerRepository
	searcher repository.SupplierSearcher
	bus      repository.EventBus
	notifier repository.Notifier
}

// NewCommandUseCase crea el aplicador de comandos. searcher puede ser nil si
// no hay backend de búsqueda de proveedores configurado.
func NewCommandUseCase(
	planner repository.PlannerRepository,
	searcher repository.SupplierSearcher,
	bus repository.EventBus,
	notifier repository.Notifier,
) CommandUseCase {
	return &commandUseCase{
		planner:  planner,
		searcher: searcher,
		bus:      bus,
		notifier: notifier,
	}
}

// ApplyCommands aplica el lote en orden. Antes los handlers corrían sueltos y
// los errores se tragaban; ahora el pipeline es secuencial y cada comando
// devuelve su desenlace, aunque el chat sigue sin bloquearse por un fallo.
func (u *commandUseCase) ApplyCommands(ctx context.Context, commands []entity.Command) []CommandResult {
	results := make([]CommandResult, 0, len(commands))
	for _, cmd := range commands {
		results = append(results, u.applyCommand(ctx, cmd))
	}
	return results
}

func (u *commandUseCase) applyCommand(ctx context.Context, cmd entity.Command) (result CommandResult) {
	result = CommandResult{Command: cmd}
	defer func() {
		if r := recover(); r != nil {
			result.Applied = false
			result.Err = fmt.Errorf("comando %s/%s: %v", cmd.Entity, cmd.Action, r)
			log.Printf("comando descartado por pánico: %v", result.Err)
		}
	}()

	payload := cmd.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	switch cmd.Entity {
	case entity.EntityTask, entity.EntityMeeting:
		return u.applyMeeting(ctx, cmd, payload)
	case entity.EntityGuest:
		return u.applyGuest(ctx, cmd, payload)
	case entity.EntityMovement, "movimiento", "gasto", "ingreso":
		return u.applyMovement(ctx, cmd, payload)
	case entity.EntitySupplier:
		return u.applySupplier(ctx, cmd, payload)
	case entity.EntityTable:
		return u.applyTable(ctx, cmd, payload)
	case entity.EntityConfig:
		return u.applyConfig(ctx, cmd, payload)
	default:
		result.Reason = "entidad desconocida"
		return result
	}
}

// isUpdate acciones de edición, con alias bilingües heredados de la IA
func isUpdate(action string) bool {
	switch action {
	case "update", "edit", "editar", "modificar":
		return true
	}
	return false
}

func isDelete(action string) bool {
	return action == "delete" || action == "remove"
}

func isComplete(action string) bool {
	return action == "complete" || action == "done"
}

// ---------- task / meeting ----------

func (u *commandUseCase) applyMeeting(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}

	meetings, err := u.planner.Meetings(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	switch {
	case cmd.Action == "add":
		title := payloadString(payload, "title", "name")
		if title == "" {
			if cmd.Entity == entity.EntityTask {
				title = "Tarea"
			} else {
				title = "Reunión"
			}
		}
		start := normalizeISO(payload["start"], time.Now())
		end := normalizeISO(payload["end"], parseISOOr(start, time.Now()))
		category := payloadString(payload, "category")
		if category == "" {
			category = GuessCategory(title)
		}

		meeting := entity.Meeting{
			ID:       uniqueMeetingID(payloadString(payload, "id"), "ai", meetings),
			Title:    title,
			Name:     title,
			Desc:     payloadString(payload, "desc", "description"),
			Start:    start,
			End:      end,
			Type:     cmd.Entity,
			Category: NormalizeCategory(category),
		}
		if err := u.planner.SaveMeetings(ctx, append(meetings, meeting)); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventTasks, cmd.Entity, "add", meeting.ID)
		if cmd.Entity == entity.EntityTask {
			u.notifier.Success("Tarea añadida")
		} else {
			u.notifier.Success("Reunión añadida")
		}
		result.Applied = true

	case isUpdate(cmd.Action):
		idx := findMeeting(meetings, payloadString(payload, "id", "title"))
		if idx == -1 {
			result.Reason = "no encontrada"
			return result
		}
		mergeMeeting(&meetings[idx], payload)
		if err := u.planner.SaveMeetings(ctx, meetings); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventTasks, cmd.Entity, "update", meetings[idx].ID)
		u.notifier.Success("Tarea actualizada")
		result.Applied = true

	case isDelete(cmd.Action):
		id := payloadString(payload, "id")
		title := payloadString(payload, "title", "name")
		kept := meetings[:0:0]
		for _, m := range meetings {
			if (id != "" && m.ID == id) || (title != "" && strings.EqualFold(m.Title, title)) {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == len(meetings) {
			result.Reason = "no encontrada"
			return result
		}
		if err := u.planner.SaveMeetings(ctx, kept); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventTasks, cmd.Entity, "delete", id)
		u.notifier.Success("Tarea eliminada")
		result.Applied = true

	case isComplete(cmd.Action):
		// done:false se ignora; no existe la acción inversa
		if done, ok := payload["done"].(bool); ok && !done {
			result.Reason = "done=false ignorado"
			return result
		}
		idx := findMeeting(meetings, payloadString(payload, "id", "title"))
		if idx == -1 {
			result.Reason = "no encontrada"
			return result
		}
		completed, err := u.planner.Completed(ctx)
		if err != nil {
			result.Err = err
			return result
		}
		completed[meetings[idx].ID] = true
		if err := u.planner.SaveCompleted(ctx, completed); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventTasks, cmd.Entity, "complete", meetings[idx].ID)
		u.notifier.Success("Tarea marcada como completada")
		result.Applied = true

	default:
		result.Reason = "acción desconocida"
	}
	return result
}

// findMeeting busca por id y, si no, por título sin distinguir mayúsculas.
// El parser local direcciona solo por título, así que el doble criterio se
// mantiene a propósito.
func findMeeting(meetings []entity.Meeting, identifier string) int {
	if identifier == "" {
		return -1
	}
	for i, m := range meetings {
		if m.ID == identifier {
			return i
		}
	}
	for i, m := range meetings {
		if strings.EqualFold(m.Title, identifier) {
			return i
		}
	}
	return -1
}

func mergeMeeting(m *entity.Meeting, payload map[string]any) {
	if v := payloadString(payload, "title"); v != "" {
		m.Title = v
		m.Name = v
	}
	if v := payloadString(payload, "name"); v != "" {
		m.Name = v
	}
	if v := payloadString(payload, "desc", "description"); v != "" {
		m.Desc = v
	}
	if v, ok := payload["start"]; ok {
		m.Start = normalizeISO(v, time.Now())
	}
	if v, ok := payload["end"]; ok {
		m.End = normalizeISO(v, time.Now())
	}
	if v := payloadString(payload, "category"); v != "" {
		m.Category = NormalizeCategory(v)
	}
}

// ---------- guest ----------

func (u *commandUseCase) applyGuest(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}

	guests, err := u.planner.Guests(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	switch {
	case cmd.Action == "add":
		guest := entity.Guest{
			ID:         uniqueGuestID(payloadString(payload, "id"), guests),
			Name:       defaultString(payloadString(payload, "name"), "Invitado"),
			Phone:      payloadString(payload, "phone"),
			Address:    payloadString(payload, "address"),
			Companions: coerceInt(firstPresent(payload, "companion", "companions")),
			Table:      payloadString(payload, "table"),
			Response:   defaultString(payloadString(payload, "response"), "Pendiente"),
		}
		if err := u.planner.SaveGuests(ctx, append(guests, guest)); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventGuests, entity.EntityGuest, "add", guest.ID)
		u.notifier.Success("Invitado añadido")
		result.Applied = true

	case isUpdate(cmd.Action):
		idx := findGuest(guests, payloadString(payload, "id", "name"))
		if idx == -1 {
			result.Reason = "no encontrado"
			return result
		}
		mergeGuest(&guests[idx], payload)
		if err := u.planner.SaveGuests(ctx, guests); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventGuests, entity.EntityGuest, "update", guests[idx].ID)
		u.notifier.Success("Invitado actualizado")
		result.Applied = true

	case isDelete(cmd.Action):
		id := payloadString(payload, "id")
		name := payloadString(payload, "name")
		kept := guests[:0:0]
		for _, g := range guests {
			if (id != "" && g.ID == id) || (name != "" && strings.EqualFold(g.Name, name)) {
				continue
			}
			kept = append(kept, g)
		}
		if len(kept) == len(guests) {
			result.Reason = "no encontrado"
			return result
		}
		if err := u.planner.SaveGuests(ctx, kept); err != nil {
			result.Err = err
			return result
		}
		u.publish(repository.EventGuests, entity.EntityGuest, "delete", id)
		u.notifier.Success("Invitado eliminado")
		result.Applied = true

	default:
		result.Reason = "acción desconocida"
	}
	return result
}

func findGuest(guests []entity.Guest, identifier string) int {
	if identifier == "" {
		return -1
	}
	for i, g := range guests {
		if g.ID == identifier {
			return i
		}
	}
	for i, g := range guests {
		if strings.EqualFold(g.Name, identifier) {
			return i
		}
	}
	return -1
}

func mergeGuest(g *entity.Guest, payload map[string]any) {
	if v := payloadString(payload, "name"); v != "" {
		g.Name = v
	}
	if v := payloadString(payload, "phone"); v != "" {
		g.Phone = v
	}
	if v := payloadString(payload, "address"); v != "" {
		g.Address = v
	}
	if v, ok := firstPresentOK(payload, "companion", "companions"); ok {
		g.Companions = coerceInt(v)
	}
	if v := payloadString(payload, "table"); v != "" {
		g.Table = v
	}
	if v := payloadString(payload, "response"); v != "" {
		g.Response = v
	}
}

// ---------- movement ----------

func (u *commandUseCase) applyMovement(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}

	movements, err := u.planner.Movements(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	switch {
	case cmd.Action == "add":
		movement := entity.Movement{
			ID:     uniqueMovementID(payloadString(payload, "id"), movements),
			Name:   defaultString(payloadString(payload, "concept", "name"), "Movimiento"),
			Amount: coerceNumber(payload["amount"]),
			Date:   defaultString(payloadString(payload, "date"), time.Now().Format("2006-01-02")),
			Type:   movementType(payloadString(payload, "type")),
		}
		if err := u.planner.SaveMovements(ctx, append(movements, movement)); err != nil {
			result.Err = err
			return result
		}
		u.publishFinance("add", movement.ID)
		u.notifier.Success("Movimiento añadido")
		result.Applied = true

	case isUpdate(cmd.Action):
		idx := findMovement(movements, payloadString(payload, "id", "concept", "name"))
		if idx == -1 {
			result.Reason = "no encontrado"
			return result
		}
		mergeMovement(&movements[idx], payload)
		if err := u.planner.SaveMovements(ctx, movements); err != nil {
			result.Err = err
			return result
		}
		u.publishFinance("update", movements[idx].ID)
		u.notifier.Success("Movimiento actualizado")
		result.Applied = true

	case isDelete(cmd.Action):
		id := payloadString(payload, "id")
		name := payloadString(payload, "concept", "name")
		kept := movements[:0:0]
		for _, m := range movements {
			if (id != "" && m.ID == id) || (name != "" && strings.EqualFold(m.Name, name)) {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == len(movements) {
			result.Reason = "no encontrado"
			return result
		}
		if err := u.planner.SaveMovements(ctx, kept); err != nil {
			result.Err = err
			return result
		}
		u.publishFinance("delete", id)
		u.notifier.Success("Movimiento eliminado")
		result.Applied = true

	default:
		result.Reason = "acción desconocida"
	}
	return result
}

func findMovement(movements []entity.Movement, identifier string) int {
	if identifier == "" {
		return -1
	}
	for i, m := range movements {
		if m.ID == identifier {
			return i
		}
	}
	for i, m := range movements {
		if strings.EqualFold(m.Name, identifier) {
			return i
		}
	}
	return -1
}

func mergeMovement(m *entity.Movement, payload map[string]any) {
	if v := payloadString(payload, "concept", "name"); v != "" {
		m.Name = v
	}
	if v, ok := payload["amount"]; ok {
		m.Amount = coerceNumber(v)
	}
	if v := payloadString(payload, "date"); v != "" {
		m.Date = v
	}
	if v := payloadString(payload, "type"); v != "" {
		m.Type = movementType(v)
	}
}

func movementType(t string) string {
	if t == entity.MovementIncome {
		return entity.MovementIncome
	}
	return entity.MovementExpense
}

// ---------- supplier ----------

// applySupplier solo soporta search. Con resultados reemplaza la cache entera
// de proveedores; sin resultados o con fallo solo avisa, sin tocar estado.
func (u *commandUseCase) applySupplier(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}
	if cmd.Action != "search" {
		result.Reason = "acción desconocida"
		return result
	}

	query := payloadString(payload, "query", "q", "keyword", "term")
	if query == "" {
		result.Reason = "consulta vacía"
		return result
	}
	if u.searcher == nil {
		u.notifier.Error("Error buscando proveedores")
		result.Reason = "sin backend de búsqueda"
		return result
	}

	suppliers, err := u.searcher.SearchSuppliers(ctx, query)
	if err != nil {
		u.notifier.Error("Error buscando proveedores")
		result.Err = err
		return result
	}
	if len(suppliers) == 0 {
		u.notifier.Info("No se encontraron proveedores")
		result.Reason = "sin resultados"
		return result
	}

	if err := u.planner.SaveSuppliers(ctx, suppliers); err != nil {
		result.Err = err
		return result
	}
	u.publish(repository.EventSuppliers, entity.EntitySupplier, "search", "")
	u.notifier.Success(fmt.Sprintf("Encontrados %d proveedores", len(suppliers)))
	result.Applied = true
	return result
}

// ---------- table ----------

func (u *commandUseCase) applyTable(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}

	table := payloadString(payload, "table")
	if table == "" {
		result.Reason = "mesa vacía"
		return result
	}

	guests, err := u.planner.Guests(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	idx := -1
	id := payloadString(payload, "guestId", "guest")
	name := payloadString(payload, "guestName", "name", "guest")
	for i, g := range guests {
		if (id != "" && g.ID == id) || (name != "" && strings.EqualFold(g.Name, name)) {
			idx = i
			break
		}
	}
	if idx == -1 {
		result.Reason = "invitado no encontrado"
		return result
	}

	guests[idx].Table = table
	if err := u.planner.SaveGuests(ctx, guests); err != nil {
		result.Err = err
		return result
	}
	u.publish(repository.EventGuests, entity.EntityTable, "update", guests[idx].ID)
	u.notifier.Success(fmt.Sprintf("Invitado movido a mesa %s", table))
	result.Applied = true
	return result
}

// ---------- config ----------

// applyConfig mezcla el payload en weddingInfo; payload.root es la vía de
// escape para tocar la raíz del perfil.
func (u *commandUseCase) applyConfig(ctx context.Context, cmd entity.Command, payload map[string]any) CommandResult {
	result := CommandResult{Command: cmd}

	profile, err := u.planner.Profile(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	if profile == nil {
		profile = entity.Profile{}
	}

	info := profile.WeddingInfo()
	for k, v := range payload {
		if k == "root" {
			continue
		}
		info[k] = v
	}
	if root, ok := payload["root"].(map[string]any); ok {
		for k, v := range root {
			profile[k] = v
		}
	}

	if err := u.planner.SaveProfile(ctx, profile); err != nil {
		result.Err = err
		return result
	}
	u.publish(repository.EventProfile, entity.EntityConfig, "update", "")
	u.notifier.Success("Configuración actualizada")
	result.Applied = true
	return result
}

// ---------- helpers ----------

func (u *commandUseCase) publish(event, ent, action, id string) {
	u.bus.Publish(event, &repository.EventDetail{Entity: ent, Action: action, ID: id})
}

// publishFinance los movimientos emiten su evento fino y el genérico de
// finanzas para quien solo recalcula totales
func (u *commandUseCase) publishFinance(action, id string) {
	u.publish(repository.EventMovements, entity.EntityMovement, action, id)
	u.bus.Publish(repository.EventFinance, nil)
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func firstPresent(payload map[string]any, keys ...string) any {
	v, _ := firstPresentOK(payload, keys...)
	return v
}

func firstPresentOK(payload map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := payload[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// normalizeISO vuelca fechas en cualquier formato razonable a RFC 3339
func normalizeISO(v any, fallback time.Time) string {
	s, _ := v.(string)
	if s == "" {
		return fallback.Format(time.RFC3339)
	}
	if t, err := parseISO(s); err == nil {
		return t.Format(time.RFC3339)
	}
	return s
}

func parseISO(s string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", "2006-01-02T15:04", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseISOOr(s string, fallback time.Time) time.Time {
	if t, err := parseISO(s); err == nil {
		return t
	}
	return fallback
}

func uniqueMeetingID(requested, prefix string, meetings []entity.Meeting) string {
	taken := make(map[string]bool, len(meetings))
	for _, m := range meetings {
		taken[m.ID] = true
	}
	return uniqueID(requested, prefix, taken)
}

func uniqueGuestID(requested string, guests []entity.Guest) string {
	taken := make(map[string]bool, len(guests))
	for _, g := range guests {
		taken[g.ID] = true
	}
	return uniqueID(requested, "guest", taken)
}

func uniqueMovementID(requested string, movements []entity.Movement) string {
	taken := make(map[string]bool, len(movements))
	for _, m := range movements {
		taken[m.ID] = true
	}
	return uniqueID(requested, "mov", taken)
}

// uniqueID respeta el id pedido y si no genera <prefijo>-<epoch ms>,
// avanzando el sufijo hasta que no choque con la colección
func uniqueID(requested, prefix string, taken map[string]bool) string {
	if requested != "" && !taken[requested] {
		return requested
	}
	ms := time.Now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-%d", prefix, ms)
		if !taken[id] {
			return id
		}
		ms++
	}
}
