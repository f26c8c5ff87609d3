package tokenpkg

import "fmt"

// New returns the Maker for the given token type ("paseto" or "jwt").
func New(tokenType, key string) (Maker, error) {
	switch tokenType {
	case "", "paseto":
		return NewPasetoMaker(key)
	case "jwt":
		return NewJWTMaker(key)
	}

	return nil, fmt.Errorf("unsupported token type %q", tokenType)
}
