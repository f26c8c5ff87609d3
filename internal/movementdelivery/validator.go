package movementdelivery

import (
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidMovementKind validates whether the movement kind is income or expense.
var ValidMovementKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		return domain.MovementKind(k).Valid()
	}
	return false
}
