package swagger

import _ "embed"

// OpenAPI is the ops API description served at DocumentPath.
//
//go:embed openapi.yaml
var OpenAPI []byte
