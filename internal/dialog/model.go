package dialog

type State string

const (
	StateIdle State = "idle"
	// /gratis без кода: следующий текст — код фильма
	StateAwaitCode State = "await_code"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
