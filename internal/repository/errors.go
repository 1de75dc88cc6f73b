package repository

import "errors"

// ErrNotFound se envuelve con %w cuando una fila no existe
var ErrNotFound = errors.New("not found")

// ErrDuplicate se envuelve con %w cuando se viola una restricción UNIQUE
var ErrDuplicate = errors.New("duplicate")
