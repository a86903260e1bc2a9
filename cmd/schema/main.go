// Command schema writes JSON schema of engager configuration, embedded by pkg/config for verification
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/umputun/engager/pkg/config"
)

func main() {
	outputPath := "schema.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	r := &jsonschema.Reflector{}
	schema := r.Reflect(&config.Config{})
	schema.Title = "engager configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write schema file %s: %v", outputPath, err)
	}

	fmt.Printf("config schema written to %s\n", outputPath)
}
