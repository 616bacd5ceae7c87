package usecase

import "strings"

// GenerateLocalReply respuesta de emergencia cuando el backend de IA no está
// disponible. Palabras clave simples sobre el texto del usuario; garantiza que
// el chat nunca se queda sin contestar.
func GenerateLocalReply(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "hola", "buenas", "hello"):
		return "¡Hola! Soy tu asistente de bodas. Aunque tengo algunos problemas técnicos temporales, puedo ayudarte con información básica sobre tu boda. ¿En qué puedo asistirte?"
	case containsAny(lower, "invitado", "guest"):
		return "Te puedo ayudar con la gestión de invitados. Puedes añadir invitados manualmente desde la sección de Invitados en el menú principal. ¿Necesitas ayuda con algo específico sobre los invitados?"
	case containsAny(lower, "presupuesto", "dinero", "coste", "precio", "gasto"):
		return "Para gestionar tu presupuesto de boda, ve a la sección de Finanzas donde puedes añadir gastos e ingresos. ¿Quieres que te explique cómo funciona el control de presupuesto?"
	case containsAny(lower, "fecha", "cuando", "cuándo", "día", "calendario"):
		return "Puedes gestionar las fechas importantes de tu boda en el calendario. ¿Necesitas ayuda para planificar alguna fecha específica?"
	case containsAny(lower, "proveedor", "fotógrafo", "fotografo", "catering", "vendor"):
		return "En la sección de Proveedores puedes buscar y gestionar todos los servicios para tu boda. ¿Buscas algún tipo de proveedor en particular?"
	case containsAny(lower, "mesa", "asiento", "seating"):
		return "El plan de mesas te permite organizar dónde se sentarán tus invitados. Puedes acceder desde el menú principal. ¿Necesitas ayuda con la distribución de mesas?"
	case containsAny(lower, "ayuda", "cómo", "como", "help"):
		return "Estoy aquí para ayudarte con tu boda. Aunque tengo limitaciones técnicas temporales, puedo orientarte sobre:\n\n• Gestión de invitados\n• Control de presupuesto\n• Planificación de fechas\n• Búsqueda de proveedores\n• Organización de mesas\n\n¿En qué área necesitas más ayuda?"
	case containsAny(lower, "problema", "error", "no funciona"):
		return "Entiendo que hay algunos problemas técnicos. Estamos trabajando para solucionarlos. Mientras tanto, puedes usar todas las funciones de la aplicación manualmente desde el menú. ¿Hay algo específico que no funcione?"
	default:
		return "Disculpa, tengo algunas limitaciones técnicas temporales y no puedo procesar completamente tu consulta. Sin embargo, puedes:\n\n• Usar el menú principal para navegar\n• Gestionar invitados, presupuesto y fechas manualmente\n• Buscar proveedores en la sección correspondiente\n\n¿Puedes ser más específico sobre lo que necesitas?"
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
