package actors

import (
	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/registry"
)

// Type names of the built-in actors.
const (
	TypeArrayToChunks      = "ArrayToChunks"
	TypeUniqueID           = "UniqueID"
	TypeMapToKeyValuePairs = "MapToKeyValuePairs"
	TypeConvert            = "Convert"
	TypeSetStorageValue    = "SetStorageValue"
	TypeAppendStorageValue = "AppendStorageValue"
	TypeStorageValue       = "StorageValue"
	TypeLookUp             = "LookUp"
	TypeSetVariable        = "SetVariable"
	TypeSetVariables       = "SetVariables"
	TypeDBQuery            = "DBQuery"
	TypeDBExecute          = "DBExecute"
	TypeDatabaseConnection = "DatabaseConnection"
	TypeDisplay            = "Display"
	TypeNull               = "Null"
	TypeStringConstants    = "StringConstants"
	TypeForLoop            = "ForLoop"
	TypeExternal           = "External"
)

// RegisterAll registers every built-in actor type.
func RegisterAll(r *registry.Registry) {
	r.Register(TypeArrayToChunks, func(name string) actor.Actor { return NewArrayToChunks(name) })
	r.Register(TypeUniqueID, func(name string) actor.Actor { return NewUniqueID(name) })
	r.Register(TypeMapToKeyValuePairs, func(name string) actor.Actor { return NewMapToKeyValuePairs(name) })
	r.Register(TypeConvert, func(name string) actor.Actor { return NewConvert(name) })
	r.Register(TypeSetStorageValue, func(name string) actor.Actor { return NewSetStorageValue(name) })
	r.Register(TypeAppendStorageValue, func(name string) actor.Actor { return NewAppendStorageValue(name) })
	r.Register(TypeStorageValue, func(name string) actor.Actor { return NewStorageValue(name) })
	r.Register(TypeLookUp, func(name string) actor.Actor { return NewLookUp(name) })
	r.Register(TypeSetVariable, func(name string) actor.Actor { return NewSetVariable(name) })
	r.Register(TypeSetVariables, func(name string) actor.Actor { return NewSetVariables(name) })
	r.Register(TypeDBQuery, func(name string) actor.Actor { return NewDBQuery(name) })
	r.Register(TypeDBExecute, func(name string) actor.Actor { return NewDBExecute(name) })
	r.Register(TypeDatabaseConnection, func(name string) actor.Actor { return NewDatabaseConnection(name) })
	r.Register(TypeDisplay, func(name string) actor.Actor { return NewDisplay(name) })
	r.Register(TypeNull, func(name string) actor.Actor { return NewNull(name) })
	r.Register(TypeStringConstants, func(name string) actor.Actor { return NewStringConstants(name) })
	r.Register(TypeForLoop, func(name string) actor.Actor { return NewForLoop(name) })
	r.Register(TypeExternal, func(name string) actor.Actor { return actor.NewExternal(name) })
}

// NewRegistry returns a registry with every built-in type.
func NewRegistry() *registry.Registry {
	r := registry.NewRegistry()
	RegisterAll(r)
	return r
}
