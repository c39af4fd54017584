package actions

import (
	"github.com/dwops/batchgate/rdbms/shared"
)

type ConnectionHandler interface {
	GetConnectionType(connectionName string) (connectionType string, err error)
	GetConnectionDetails(connectionName string) (connectionDetails *shared.ConnectionDetails, err error)
}

type ConnectionLoader interface {
	LoadConnection(connectionName string) (shared.ConnectionDetails, error)
}

type ConnectionGetterSetter interface {
	Get(key string, out interface{}) error
	Set(key string, val interface{}) error
	Delete(key string) error
}

type ConnectionValidator interface {
	Parse() error
	GetMap(m map[string]string) map[string]string
	GetScheme() (string, error)
}

// ExternalStep is one opaque ETL-tool invocation in the pipeline, e.g. the
// staging transfer or the warehouse load. The orchestrator only cares about
// success or failure; the step owns its own outputs.
type ExternalStep interface {
	Name() string
	Execute(runDate string) error
}
