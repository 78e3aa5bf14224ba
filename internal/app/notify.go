package app

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is a message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// User-facing messages.
const (
	MsgCreated        = "¡Negocio registrado exitosamente!"
	MsgSaveFailed     = "No se pudo guardar la información. Inténtalo nuevamente."
	MsgVisited        = "¡Negocio marcado como visitado!"
	MsgAlreadyVisited = "Ya has visitado este negocio."
	MsgNotFound       = "El negocio solicitado no existe."
	MsgLocating       = "Obteniendo tu ubicación..."
	MsgLocated        = "Ubicación encontrada correctamente."
	MsgNoVisits       = "Aún no has visitado ningún negocio."
	MsgNoBusinesses   = "No hay negocios registrados todavía. ¡Sé el primero en agregar uno!"
	MsgNoPhone        = "No disponible"
	MsgNoHours        = "Horario no especificado"
)

func success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func failure(msg string) Notification { return Notification{Level: LevelError, Message: msg} }
func warning(msg string) Notification { return Notification{Level: LevelWarning, Message: msg} }
func info(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
