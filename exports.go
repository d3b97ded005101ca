package fsd

import "github.com/fsdgo/fsd/model"

// Type aliases for the public API - all types come from the model subpackage.

// Service is a parsed service definition.
type Service = model.ServiceInfo

// Member is a declaration of a service.
type Member = model.Member

// Error is a problem found in a service definition.
type Error = model.Error

// ServiceDefinitionError carries every problem of an invalid definition.
type ServiceDefinitionError = model.ServiceDefinitionError

// Position is a location in a definition text.
type Position = model.Position

// TypeInfo is a resolved field type.
type TypeInfo = model.TypeInfo
