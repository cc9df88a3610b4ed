package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-essays/pkg/interfaces"
)

var ErrSchemaInvalid = errors.New("lint: metadata schema invalid")

// compileMetadataSchema compiles an optional JSON schema that constrains the
// custom front matter keys an essay may carry.
func compileMetadataSchema(schema map[string]any) (*jsonschema.Schema, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Join(ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("metadata.json", bytes.NewReader(encoded)); err != nil {
		return nil, errors.Join(ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("metadata.json")
	if err != nil {
		return nil, errors.Join(ErrSchemaInvalid, err)
	}
	return compiled, nil
}

// checkMetadata validates custom front matter keys against the compiled
// schema, flattening nested causes into per-location issues.
func (l *Linter) checkMetadata(report *Report, doc *interfaces.Document) {
	if l.metadataSchema == nil {
		return
	}
	payload := doc.FrontMatter.Custom
	if payload == nil {
		payload = map[string]any{}
	}
	err := l.metadataSchema.Validate(normalizePayload(payload))
	if err == nil {
		return
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		report.add(doc.FilePath, "metadata", SeverityError, "%s", err.Error())
		return
	}
	for _, issue := range flattenSchemaError(validationErr) {
		field := "metadata"
		if issue.location != "" {
			field = "metadata" + issue.location
		}
		report.add(doc.FilePath, field, SeverityError, "%s", issue.message)
	}
}

type schemaIssue struct {
	location string
	message  string
}

func flattenSchemaError(err *jsonschema.ValidationError) []schemaIssue {
	if err == nil {
		return nil
	}
	issues := []schemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, schemaIssue{
				location: strings.TrimSpace(node.InstanceLocation),
				message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// normalizePayload round-trips the payload through JSON so YAML-decoded
// values (map[any]any, time.Time) match what the schema validator expects.
func normalizePayload(payload map[string]any) any {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return payload
	}
	return normalized
}
