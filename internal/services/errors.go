package services

import "errors"

// Common service errors
var (
	ErrNotFound            = errors.New("registro não encontrado")
	ErrInvalidState        = errors.New("transição de estado inválida")
	ErrSyncInProgress      = errors.New("sincronização já em andamento para este cliente")
	ErrGeneratedReadOnly   = errors.New("lançamentos gerados pelo plano não podem ser editados manualmente")
)
