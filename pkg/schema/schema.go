package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// PersonaSchema is the JSON schema of the persona object, every key required.
var PersonaSchema = generateSchema[Persona]()

// PersonaResponseFormat asks OpenAI-compatible providers to constrain the
// persona response to PersonaSchema.
func PersonaResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "persona",
		Description: openai.String("Second-person persona dossier set in ancient Iran"),
		Schema:      PersonaSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

// JSONObjectResponseFormat is the looser JSON mode for providers without
// structured outputs.
func JSONObjectResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
	}
}
