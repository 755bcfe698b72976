package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameExists     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPersistence        = errors.New("fallo de persistencia")
	ErrEmptyLines         = errors.New("el movimiento no tiene líneas")
	ErrMissingDestination = errors.New("una salida requiere servicio destino")
	ErrUnknownItem        = errors.New("insumo inexistente")
	ErrUnknownBatch       = errors.New("lote inexistente")
	ErrUnknownService     = errors.New("servicio inexistente")
	ErrInvalidQuantity    = errors.New("la cantidad debe ser un entero positivo")
)

// Issue es un problema puntual de validación. Line es el índice (base 0) de la línea
// del movimiento, o -1 cuando el problema es del encabezado.
type Issue struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    error  `json:"-"`
}

// ValidationError agrupa todos los problemas de entrada detectados antes de escribir.
// errors.Is(err, ErrInvalidInput) siempre es verdadero; además coincide con el Kind de cada Issue.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError construye un ValidationError de un solo problema.
func NewValidationError(kind error, line int, field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(kind, line, field, message)
	return v
}

// Add agrega un problema. El código se deriva del Kind.
func (e *ValidationError) Add(kind error, line int, field, message string) {
	if message == "" && kind != nil {
		message = kind.Error()
	}
	e.Issues = append(e.Issues, Issue{
		Line:    line,
		Field:   field,
		Code:    issueCode(kind),
		Message: message,
		Kind:    kind,
	})
}

// Empty indica si no se registró ningún problema.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Issues) == 0 }

// OrNil devuelve nil si no hay problemas (evita el nil tipado en la interfaz error).
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Line >= 0 {
			parts = append(parts, fmt.Sprintf("línea %d: %s: %s", is.Line, is.Field, is.Message))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Message))
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	out := []error{ErrInvalidInput}
	for _, is := range e.Issues {
		if is.Kind != nil {
			out = append(out, is.Kind)
		}
	}
	return out
}

func issueCode(kind error) string {
	switch kind {
	case ErrEmptyLines:
		return "EMPTY_LINES"
	case ErrMissingDestination:
		return "MISSING_DESTINATION"
	case ErrUnknownItem:
		return "UNKNOWN_ITEM"
	case ErrUnknownBatch:
		return "UNKNOWN_BATCH"
	case ErrUnknownService:
		return "UNKNOWN_SERVICE"
	case ErrInvalidQuantity:
		return "INVALID_QUANTITY"
	default:
		return "INVALID"
	}
}

// InsufficientStockError: una línea de salida pide más de lo disponible en el lote.
type InsufficientStockError struct {
	Line      int    `json:"line"`
	BatchID   int64  `json:"batch_id"`
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	LotNumber string `json:"lot_number"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s (Lote: %s). Stock disponible: %d, Solicitado: %d",
		e.ItemName, e.LotNumber, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError: un escritor concurrente invalidó la operación (lock timeout, deadlock,
// serialización). El llamador puede reintentar la operación completa.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrConflict.Error()
	}
	return e.Op + ": " + ErrConflict.Error() + ": " + e.Err.Error()
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}

// PersistenceError: la capa de almacenamiento falló o no está disponible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrPersistence.Error()
	}
	return e.Op + ": " + ErrPersistence.Error() + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

// IsEngineError indica si err ya pertenece a la taxonomía del motor de movimientos.
func IsEngineError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPersistence)
}
