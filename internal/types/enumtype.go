package types

import (
	"github.com/fieldhub/fbserver/internal/attribute"
	"github.com/fieldhub/fbserver/internal/enum"
)

// EnumType delegates formatting/parsing to an owned Enumeration.
type EnumType struct {
	Enum *enum.Enumeration
}

func NewEnum(e *enum.Enumeration) *EnumType { return &EnumType{Enum: e} }

func (EnumType) Name() string { return "enum" }

func (t *EnumType) Parse(_ int, s string) (uint32, error) { return t.Enum.Parse(s) }

func (t *EnumType) Format(_ int, v uint32) (string, error) { return t.Enum.Format(v), nil }

func (t *EnumType) Attributes() []*attribute.Attribute { return nil }
