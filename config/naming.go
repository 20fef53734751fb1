package config

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// NamingConvention controls how document keys are rendered as column
// headers in tabular exports.
type NamingConvention interface {
	ToColumnHeader(name string) string
}

type identityNaming struct{}

func NewIdentityNaming() NamingConvention {
	return &identityNaming{}
}

func (n *identityNaming) ToColumnHeader(name string) string {
	return name
}

type snakeNaming struct{}

func NewSnakeNaming() NamingConvention {
	return &snakeNaming{}
}

func (n *snakeNaming) ToColumnHeader(name string) string {
	return strcase.ToSnake(name)
}

type lowerCamelNaming struct{}

func NewLowerCamelNaming() NamingConvention {
	return &lowerCamelNaming{}
}

func (n *lowerCamelNaming) ToColumnHeader(name string) string {
	return strcase.ToLowerCamel(name)
}

// NamingFromString maps a flag value to a naming convention.
func NamingFromString(name string) (NamingConvention, error) {
	switch name {
	case "", "identity":
		return NewIdentityNaming(), nil
	case "snake":
		return NewSnakeNaming(), nil
	case "lowerCamel":
		return NewLowerCamelNaming(), nil
	default:
		return nil, fmt.Errorf("invalid naming convention: %s", name)
	}
}
