package importer

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by kind.
var schemaCache sync.Map // map[Kind]*jsonschema.Schema

var (
	stringType   = map[string]any{"type": "string"}
	idType       = map[string]any{"type": "string", "minLength": 1}
	countType    = map[string]any{"type": "integer", "minimum": 0}
	timestampDef = map[string]any{"type": []any{"string", "number", "object", "null"}}
	stringList   = map[string]any{"type": "array", "items": stringType}
)

var answerDef = map[string]any{
	"type":     "object",
	"required": []any{"type", "isCorrect"},
	"properties": map[string]any{
		"type":      map[string]any{"enum": []any{"COMPREHENSION", "VOCABULARY"}},
		"answer":    stringType,
		"isCorrect": map[string]any{"type": "boolean"},
	},
}

var questionDef = map[string]any{
	"type":     "object",
	"required": []any{"options", "answer", "type"},
	"properties": map[string]any{
		"title":   stringType,
		"options": stringList,
		"answer":  stringType,
		"type":    map[string]any{"enum": []any{"COMPREHENSION", "VOCABULARY"}},
	},
}

// definitions holds the per-document schema for each kind.
var definitions = map[Kind]map[string]any{
	KindSubmissions: {
		"type":     "object",
		"required": []any{"studentId", "materialId", "testType"},
		"properties": map[string]any{
			"id":                 stringType,
			"studentId":          idType,
			"materialId":         idType,
			"materialBatch":      stringType,
			"testType":           idType,
			"quarter":            stringType,
			"mode":               stringType,
			"answers":            map[string]any{"type": "array", "items": answerDef},
			"comprehensionScore": countType,
			"vocabularyScore":    countType,
			"numberOfWords":      countType,
			"duration":           map[string]any{"type": "number", "minimum": 0},
			"miscues":            stringList,
			"submittedAt":        timestampDef,
		},
	},
	KindMaterials: {
		"type":     "object",
		"required": []any{"id", "title"},
		"properties": map[string]any{
			"id":        idType,
			"title":     stringType,
			"text":      stringType,
			"author":    stringType,
			"skill":     stringType,
			"quarter":   stringType,
			"testType":  stringType,
			"questions": map[string]any{"type": "array", "items": questionDef},
		},
	},
	KindSkills: {
		"type":     "object",
		"required": []any{"id", "title"},
		"properties": map[string]any{
			"id":    idType,
			"title": stringType,
		},
	},
	KindStudents: {
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id":    idType,
			"name":  stringType,
			"email": stringType,
		},
	},
	KindLessons: {
		"type":     "object",
		"required": []any{"studentId", "lessonId"},
		"properties": map[string]any{
			"studentId":         idType,
			"lessonId":          idType,
			"completedContents": stringList,
			"totalContents":     countType,
			"completedAt":       timestampDef,
		},
	},
	KindChapter: {
		"type": "object",
		"properties": map[string]any{
			"activeChapter":   stringType,
			"preTestEnabled":  map[string]any{"type": "boolean"},
			"postTestEnabled": map[string]any{"type": "boolean"},
		},
	},
}

// validateDocument validates one parsed document against the kind's schema.
func validateDocument(kind Kind, doc any) error {
	compiled, err := getCompiledSchema(kind)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", kind, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for kind %q", kind)
	}

	// The jsonschema library expects a parsed JSON value (any), not Go maps
	// with typed slices. Round-trip through JSON for a clean representation.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://tbrite/%s.json", kind)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(kind, compiled)
	return compiled, nil
}
