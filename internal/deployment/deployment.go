// Package deployment resolves the identity of the running model
// deployment, used as the default model id/version when the monitor
// configuration leaves them unset.
package deployment

import "os"

// EnvResolver reads the deployment identity from environment
// variables, falling back to the hostname for the model id.
type EnvResolver struct {
	IDVar      string
	VersionVar string
}

// NewEnvResolver resolves from MODEL_NAME / MODEL_VERSION.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{IDVar: "MODEL_NAME", VersionVar: "MODEL_VERSION"}
}

func (r *EnvResolver) Resolve() (modelID, modelVersion string) {
	modelID = os.Getenv(r.IDVar)
	modelVersion = os.Getenv(r.VersionVar)
	if modelID == "" {
		if host, err := os.Hostname(); err == nil {
			modelID = host
		}
	}
	return modelID, modelVersion
}

// Static returns a resolver that always yields the given identity.
func Static(modelID, modelVersion string) StaticResolver {
	return StaticResolver{ModelID: modelID, ModelVersion: modelVersion}
}

// StaticResolver resolves to a fixed identity, mainly for tests and
// explicit configuration.
type StaticResolver struct {
	ModelID      string
	ModelVersion string
}

func (r StaticResolver) Resolve() (string, string) {
	return r.ModelID, r.ModelVersion
}
