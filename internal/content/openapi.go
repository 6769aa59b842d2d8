package content

import (
	"strings"

	"github.com/JaimeStill/masteryhub/pkg/openapi"
)

// schemaName converts a resource label to a component schema name,
// e.g. "Base content" to "BaseContent".
func schemaName(label string) string {
	var b strings.Builder
	for word := range strings.FieldsSeq(label) {
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	return b.String()
}

// Schemas returns the component schemas describing the resource.
func (r Resource) Schemas() map[string]*openapi.Schema {
	name := schemaName(r.Label)

	return map[string]*openapi.Schema{
		name: {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "integer", Format: "int64"},
				"title":      {Type: "string"},
				"content":    {Type: "string"},
				"category":   {Type: "string", Example: DefaultCategory},
				"created_at": {Type: "string", Format: "date-time"},
			},
			Required: []string{"id", "title", "content", "category", "created_at"},
		},
		name + "Create": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":    {Type: "string", Description: "Trimmed; must not be empty"},
				"content":  {Type: "string", Description: "Trimmed; must not be empty"},
				"category": {Type: "string", Default: DefaultCategory},
			},
			Required: []string{"title", "content"},
		},
		name + "Update": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":    {Type: "string"},
				"content":  {Type: "string"},
				"category": {Type: "string"},
			},
			Required: []string{"title", "content", "category"},
		},
	}
}

// Paths returns the path items for the resource routes under basePath.
func (r Resource) Paths(basePath string) map[string]*openapi.PathItem {
	name := schemaName(r.Label)
	root := basePath + "/" + r.Name
	tags := []string{r.Label}
	idParam := openapi.PathParam("id", "integer", "int64", r.Label+" ID")

	return map[string]*openapi.PathItem{
		root: {
			Get: &openapi.Operation{
				Summary: "List " + r.Plural,
				Tags:    tags,
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSONArray("All "+r.Plural+", newest first", name),
					500: openapi.ResponseRef("InternalError"),
				},
			},
			Post: &openapi.Operation{
				Summary:     "Create a " + r.Noun(),
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON(name+"Create", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Created "+r.Noun(), name),
					400: openapi.ResponseRef("BadRequest"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		root + "/{id}": {
			Put: &openapi.Operation{
				Summary:     "Update a " + r.Noun(),
				Tags:        tags,
				Parameters:  []*openapi.Parameter{idParam},
				RequestBody: openapi.RequestBodyJSON(name+"Update", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated "+r.Noun(), name),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
			Delete: &openapi.Operation{
				Summary:    "Delete a " + r.Noun(),
				Tags:       tags,
				Parameters: []*openapi.Parameter{idParam},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Deletion confirmation", "Message"),
					400: openapi.ResponseRef("BadRequest"),
					404: openapi.ResponseRef("NotFound"),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
		root + "/category/{category}": {
			Get: &openapi.Operation{
				Summary: "List " + r.Plural + " in a category",
				Tags:    tags,
				Parameters: []*openapi.Parameter{
					openapi.PathParam("category", "string", "", "Exact, case-sensitive category"),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSONArray("Matching "+r.Plural+", newest first", name),
					500: openapi.ResponseRef("InternalError"),
				},
			},
		},
	}
}
