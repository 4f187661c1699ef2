package stats

import "errors"

// ErrInvalidFact сигнализирует, что авторитетный факт нарушает инвариант схемы
// (совпадающие клубы, отрицательный счёт, минуты сверх лимита и т.п.).
// Один невалидный факт прерывает пересчёт всей области целиком.
var ErrInvalidFact = errors.New("invalid authoritative fact")
