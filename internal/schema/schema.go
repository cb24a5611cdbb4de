// Package schema loads the Swagger 1.2-style API description a remote ARI
// server exposes at /ari/api-docs and turns it into the structures the rest
// of the client binds operations and events against. Nothing here is
// hand-written per-resource: every operation and event model in the
// returned Schema was read out of the server's own documents.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ParamLocation is where an operation parameter is bound in the request.
type ParamLocation string

const (
	ParamPath   ParamLocation = "path"
	ParamQuery  ParamLocation = "query"
	ParamBody   ParamLocation = "body"
	ParamHeader ParamLocation = "header"
)

// Parameter describes one parameter of an Operation.
type Parameter struct {
	Name        string
	Location    ParamLocation
	Required    bool
	DataType    string
	Description string
	// Variables marks a body parameter whose declared model is the
	// variables container, serialized as {"variables": {...}}.
	Variables bool
}

// ResponseKind classifies an Operation's declared response.
type ResponseKind int

const (
	ResponseNone ResponseKind = iota
	ResponsePrimitive
	ResponseModel
	ResponseList
)

// Response describes an Operation's declared response datatype.
type Response struct {
	Kind  ResponseKind
	Model string // populated for ResponseModel and ResponseList
}

// Operation is one REST call under a Resource, as described by the schema.
type Operation struct {
	Name       string
	Method     string
	PathTemplate string
	Parameters []Parameter
	Response   Response
}

// Resource is a named server-side object family (channels, bridges, ...)
// and the ordered set of operations the schema advertised for it.
type Resource struct {
	Name       string
	Operations []Operation
}

// EventProperty is one property of an EventModel.
type EventProperty struct {
	Name       string
	DataType   string
	Promotable bool // true when DataType names a KnownModel (or List[KnownModel])
}

// EventModel is the ordered property list the schema declared for one
// event type (e.g. "StasisStart").
type EventModel struct {
	Name       string
	Properties []EventProperty
}

// Schema is everything the client binds against: every resource's
// operation table and every event's property model.
type Schema struct {
	Resources map[string]*Resource
	Events    map[string]*EventModel
}

// ResourceNames returns the resource names present in the schema, sorted,
// for deterministic iteration (namespace attachment, tests).
func (s *Schema) ResourceNames() []string {
	names := make([]string, 0, len(s.Resources))
	for name := range s.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- wire format (Swagger 1.2) -------------------------------------------------

type rootDescriptor struct {
	APIVersion     string `json:"apiVersion"`
	SwaggerVersion string `json:"swaggerVersion"`
	BasePath       string `json:"basePath"`
	APIs           []struct {
		Path        string `json:"path"`
		Description string `json:"description"`
	} `json:"apis"`
}

type resourceDocument struct {
	APIs []struct {
		Path       string `json:"path"`
		Operations []struct {
			HTTPMethod    string `json:"httpMethod"`
			Nickname      string `json:"nickname"`
			ResponseClass string `json:"responseClass"`
			Parameters    []struct {
				Name        string `json:"name"`
				ParamType   string `json:"paramType"`
				Required    bool   `json:"required"`
				DataType    string `json:"dataType"`
				Description string `json:"description"`
			} `json:"parameters"`
		} `json:"operations"`
	} `json:"apis"`
	Models map[string]struct {
		ID         string `json:"id"`
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	} `json:"models"`
}

// Loader fetches and parses the schema documents over HTTP Basic auth,
// the same credentials used for every other operation.
type Loader struct {
	HTTPClient *http.Client
	BaseURL    string // e.g. "http://localhost:8088"
	User       string
	Secret     string
}

func (l *Loader) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(l.User, l.Secret)

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s: %s", resp.StatusCode, path, string(body))
	}
	return body, nil
}

// Load fetches resources.json and every per-resource document it
// references, and parses them into a Schema.
func (l *Loader) Load(ctx context.Context) (*Schema, error) {
	rootBody, err := l.get(ctx, "/ari/api-docs/resources.json")
	if err != nil {
		return nil, fmt.Errorf("fetching resources.json: %w", err)
	}

	var root rootDescriptor
	if err := json.Unmarshal(rootBody, &root); err != nil {
		return nil, fmt.Errorf("parsing resources.json: %w", err)
	}

	sch := &Schema{
		Resources: make(map[string]*Resource),
		Events:    make(map[string]*EventModel),
	}

	for _, api := range root.APIs {
		name := strings.TrimPrefix(api.Path, "/")
		name = strings.TrimSuffix(name, ".{format}")
		name = strings.TrimSuffix(name, ".json")

		docBody, err := l.get(ctx, fmt.Sprintf("/ari/api-docs/%s.json", name))
		if err != nil {
			return nil, fmt.Errorf("fetching %s.json: %w", name, err)
		}

		var doc resourceDocument
		if err := json.Unmarshal(docBody, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s.json: %w", name, err)
		}

		if name == "events" {
			parseEventModels(&doc, sch)
		}

		res := &Resource{Name: name}
		for _, a := range doc.APIs {
			for _, op := range a.Operations {
				res.Operations = append(res.Operations, buildOperation(a.Path, op.HTTPMethod, op.Nickname, op.ResponseClass, op.Parameters))
			}
		}
		sch.Resources[name] = res
	}

	return sch, nil
}

func buildOperation(path, method, nickname, responseClass string, rawParams []struct {
	Name        string `json:"name"`
	ParamType   string `json:"paramType"`
	Required    bool   `json:"required"`
	DataType    string `json:"dataType"`
	Description string `json:"description"`
}) Operation {
	op := Operation{
		Name:         nickname,
		Method:       strings.ToUpper(method),
		PathTemplate: path,
		Response:     parseResponseClass(responseClass),
	}
	for _, p := range rawParams {
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			Location:    ParamLocation(p.ParamType),
			Required:    p.Required,
			DataType:    p.DataType,
			Description: p.Description,
			Variables:   isVariablesContainer(p.DataType),
		})
	}
	return op
}

func parseResponseClass(rc string) Response {
	switch {
	case rc == "" || strings.EqualFold(rc, "void"):
		return Response{Kind: ResponseNone}
	case strings.HasPrefix(rc, "List[") && strings.HasSuffix(rc, "]"):
		model := strings.TrimSuffix(strings.TrimPrefix(rc, "List["), "]")
		return Response{Kind: ResponseList, Model: model}
	case KnownModels[rc]:
		return Response{Kind: ResponseModel, Model: rc}
	default:
		return Response{Kind: ResponsePrimitive}
	}
}

func parseEventModels(doc *resourceDocument, sch *Schema) {
	for name, model := range doc.Models {
		em := &EventModel{Name: name}
		keys := make([]string, 0, len(model.Properties))
		for k := range model.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, propName := range keys {
			prop := model.Properties[propName]
			dataType := prop.Type
			modelName := dataType
			if strings.HasPrefix(dataType, "List[") && strings.HasSuffix(dataType, "]") {
				modelName = strings.TrimSuffix(strings.TrimPrefix(dataType, "List["), "]")
			}
			em.Properties = append(em.Properties, EventProperty{
				Name:       propName,
				DataType:   dataType,
				Promotable: KnownModels[modelName],
			})
		}
		sch.Events[name] = em
	}
}
