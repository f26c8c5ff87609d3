package walletdelivery

import (
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidWalletKind validates whether the wallet kind is known.
var ValidWalletKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		return domain.WalletKind(k).Valid()
	}
	return false
}
