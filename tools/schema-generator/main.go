package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&playback.Config{})
	schema.Title = "Chat Demo Configuration"
	schema.Description = "Schema for the 'chatdemo' extension in grove.yml."

	// Make all fields optional - Grove configs should not require any fields
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	// Write to the package root
	if err := os.WriteFile("chatdemo.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated chatdemo schema at chatdemo.schema.json")

	// Script files reject unknown keys.
	scriptReflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}
	scriptSchema := scriptReflector.Reflect(&script.File{})
	scriptSchema.Title = "Chat Demo Script"
	scriptSchema.Description = "Schema for conversation script files (one locale per file)."

	scriptData, err := json.MarshalIndent(scriptSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling script schema: %v", err)
	}

	if err := os.WriteFile("chatdemo-script.schema.json", scriptData, 0644); err != nil {
		log.Fatalf("Error writing script schema file: %v", err)
	}

	log.Printf("Successfully generated script schema at chatdemo-script.schema.json")
}
