package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"liveerd/internal/diagram"
)

const systemPrompt = "You are an expert database architect. " +
	"Respond with a single JSON object of the shape " +
	`{"entities": [{"id", "name", "description", "attributes": [{"id", "name", "type", "isPrimary", "isNullable", "autoIncrement"}]}], ` +
	`"relationships": [{"id", "source", "target", "cardinality", "label"}]}.`

const promptTemplate = `Expert DB Architect Mode: Design a MySQL-optimized ERD for: %q.

CONSTRAINTS:
1. Use MySQL types (BIGINT, VARCHAR, TIMESTAMP, JSON, etc).
2. Favor AUTO_INCREMENT for Primary Keys.
3. Suggest clear business descriptions for each table.
4. Output professional snake_case.`

// Entity is one table proposed by the model. ID may be missing.
type Entity struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Attributes  []diagram.Column `json:"attributes"`
}

// EntityRelationship is one edge proposed by the model.
type EntityRelationship struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Cardinality string `json:"cardinality"`
	Label       string `json:"label"`
}

// Schema is the structured model response.
type Schema struct {
	Entities      []Entity             `json:"entities"`
	Relationships []EntityRelationship `json:"relationships"`
}

// Generator turns a free-text prompt into a full diagram state via the
// hosted model. Failures leave the caller's state untouched; the caller may
// retry by re-issuing the prompt.
type Generator struct {
	llm    LLMClient
	logger *slog.Logger
}

func NewGenerator(llm LLMClient, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, logger: logger}
}

// Generate asks the model for a schema and lays it out on the canvas. Missing
// entity and relationship ids are synthesized positionally; a missing
// cardinality falls back to 1:N.
func (g *Generator) Generate(ctx context.Context, prompt string) (diagram.State, error) {
	if g.llm == nil {
		return diagram.State{}, fmt.Errorf("AI generation is not configured")
	}

	raw, err := g.llm.GenerateJSON(ctx, systemPrompt, fmt.Sprintf(promptTemplate, prompt))
	if err != nil {
		return diagram.State{}, err
	}

	var schema Schema
	if err := json.Unmarshal([]byte(stripFences(raw)), &schema); err != nil {
		g.logger.Error("model returned malformed schema JSON", "error", err)
		return diagram.State{}, fmt.Errorf("malformed model response: %w", err)
	}

	nodes := make([]diagram.Table, 0, len(schema.Entities))
	for i, ent := range schema.Entities {
		id := ent.ID
		if id == "" {
			id = fmt.Sprintf("ent-%d", i)
		}
		attrs := ent.Attributes
		if attrs == nil {
			attrs = []diagram.Column{}
		}
		nodes = append(nodes, diagram.Table{
			ID:          id,
			Name:        ent.Name,
			Description: ent.Description,
			Attributes:  attrs,
			Position: diagram.Position{
				X: float64(100 + i*300),
				Y: float64(150 + (i%2)*200),
			},
		})
	}

	edges := make([]diagram.Relationship, 0, len(schema.Relationships))
	for i, rel := range schema.Relationships {
		id := rel.ID
		if id == "" {
			id = fmt.Sprintf("rel-%d", i)
		}
		label := rel.Cardinality
		if label == "" {
			label = "1:N"
		}
		edges = append(edges, diagram.Relationship{
			ID:     id,
			Source: rel.Source,
			Target: rel.Target,
			Label:  label,
		})
	}

	return diagram.NewState().ReplaceAll(nodes, edges), nil
}

// stripFences removes a markdown code fence some models wrap around JSON
// even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
