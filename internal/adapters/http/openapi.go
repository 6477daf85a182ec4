package httpadapter

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

//go:embed openapi.yaml
var openAPISpec []byte

type apiSpec struct {
	doc      *openapi3.T
	rendered []byte
}

func loadAPISpec() (*apiSpec, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi: %w", err)
	}
	rendered, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render openapi: %w", err)
	}
	return &apiSpec{doc: doc, rendered: rendered}, nil
}

// validateJSONBody checks a decoded JSON payload against the request schema
// declared for the POST operation on path.
func (s *apiSpec) validateJSONBody(_ context.Context, path string, payload any) error {
	item := s.doc.Paths.Find(path)
	if item == nil || item.Post == nil || item.Post.RequestBody == nil || item.Post.RequestBody.Value == nil {
		return fmt.Errorf("no request schema for %s", path)
	}
	media := item.Post.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return fmt.Errorf("no json schema for %s", path)
	}
	if err := media.Schema.Value.VisitJSON(payload); err != nil {
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			return domain.WrapError(domain.ErrInvalidInput, "validate request", errors.New(schemaErr.Reason))
		}
		return domain.WrapError(domain.ErrInvalidInput, "validate request", err)
	}
	return nil
}
