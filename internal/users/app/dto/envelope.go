package dto

// Варианты классификации ответа.
const (
	VariantSuccess = "success"
	VariantWarning = "warning"
	VariantError   = "error"
)

// Envelope - единый формат ответа API.
// Total присутствует только в ответе списка пользователей.
type Envelope struct {
	Msg     string `json:"msg"`
	Variant string `json:"variant"`
	Payload any    `json:"payload"`
	Total   *int64 `json:"total,omitempty"`
}

// Success создает ответ с вариантом success.
func Success(msg string, payload any) Envelope {
	return Envelope{Msg: msg, Variant: VariantSuccess, Payload: payload}
}

// Warning создает ответ с вариантом warning и пустым payload.
func Warning(msg string) Envelope {
	return Envelope{Msg: msg, Variant: VariantWarning, Payload: nil}
}

// Error создает ответ с вариантом error и пустым payload.
func Error(msg string) Envelope {
	return Envelope{Msg: msg, Variant: VariantError, Payload: nil}
}
