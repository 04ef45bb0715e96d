package fixtures

import (
	_ "embed"
)

//go:embed descriptors/vector_ops.yaml
var VectorOpsDescriptor []byte

//go:embed config/config.yaml
var ConfigExample []byte
