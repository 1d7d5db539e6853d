package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// validateEthAddress accepts a hex Ethereum address that is not the zero address.
func validateEthAddress(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
}

func validateFelt(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := felt.FromHex(s)
	return err == nil
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("eth_addr", validateEthAddress); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("felt", validateFelt); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				return f.String()
			case *felt.Felt:
				if f == nil {
					return ""
				}
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if a, ok := field.Interface().(common.Address); ok {
				return a.Hex()
			}
			panic("not a common.Address")
		}, common.Address{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if l, ok := field.Interface().(utils.LogLevel); ok {
				return l.String()
			}
			panic("not a utils.LogLevel")
		}, utils.LogLevel(0))
	})
	return v
}
