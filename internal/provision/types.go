// Package provision sequences the ordered, partially optional resource
// provisioning pipeline against a hosting analytical platform, isolating
// failures per stage.
package provision

import (
	"context"
	"fmt"

	"github.com/demoforgehq/demoforge/internal/datagen"
	"github.com/demoforgehq/demoforge/internal/naming"
	"github.com/demoforgehq/demoforge/internal/spec"
)

// Stage identifies one step of the provisioning pipeline, in execution
// order.
type Stage string

const (
	StageSchema       Stage = "SCHEMA"
	StageTables       Stage = "TABLES"
	StageSemanticView Stage = "SEMANTIC_VIEW"
	StageSearchIndex  Stage = "SEARCH_INDEX"
	StageAgent        Stage = "AGENT"
)

// ResourceKind classifies a provisioned resource.
type ResourceKind string

const (
	ResourceSchema       ResourceKind = "schema"
	ResourceTable        ResourceKind = "table"
	ResourceSemanticView ResourceKind = "semantic_view"
	ResourceSearchIndex  ResourceKind = "search_index"
	ResourceAgent        ResourceKind = "agent"
)

// Status is the lifecycle state of a provisioned resource. Every resource
// starts pending and ends in exactly one terminal status.
type Status string

const (
	StatusPending Status = "pending"
	StatusCreated Status = "created"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Resource is one record of the provisioner's output contract: the
// authoritative report of what happened to one resource.
type Resource struct {
	Kind   ResourceKind `json:"kind"`
	Name   string       `json:"name"`
	Status Status       `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// StageError wraps a platform failure with the stage and resource it hit.
type StageError struct {
	Stage    Stage
	Resource string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed for %s: %v", e.Stage, e.Resource, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// UnavailableError marks a platform call that could not reach the service
// at all, as opposed to the service rejecting the request.
type UnavailableError struct {
	Operation string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("platform unreachable during %s: %v", e.Operation, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// SemanticViewDef describes the semantic layer to create over the
// structured tables.
type SemanticViewDef struct {
	Name          string
	Tables        []SemanticTable
	Relationships []spec.Relationship
	Questions     []string
}

// SemanticTable is one table exposed through the semantic view.
type SemanticTable struct {
	Name       string
	Kind       spec.TableKind
	PrimaryKey string
	Columns    []spec.Column
}

// SearchIndexDef describes the text-search service to build over the
// unstructured chunk table.
type SearchIndexDef struct {
	Name       string
	Table      string
	TextColumn string
	Language   string
}

// AgentDef describes the conversational agent and the tools it
// orchestrates. SemanticView or SearchIndex may be empty when the
// corresponding stage did not produce a usable resource; the agent is then
// created with reduced capability.
type AgentDef struct {
	Name            string
	DisplayName     string
	SemanticView    string
	SearchIndex     string
	SampleQuestions []string
}

// Platform is the boundary to the hosting analytical platform. Each call
// issues the externally observable resource-creation side effect for one
// stage. Implementations do not retry; transient-failure policy belongs to
// the caller.
type Platform interface {
	CreateSchema(ctx context.Context, name string) error
	CreateTable(ctx context.Context, schemaName string, table datagen.GeneratedTable, primaryKey string) error
	CreateSemanticView(ctx context.Context, schemaName string, def SemanticViewDef) error
	CreateSearchIndex(ctx context.Context, schemaName string, def SearchIndexDef) error
	CreateAgent(ctx context.Context, schemaName string, def AgentDef) error
}

// Request carries everything one provisioning run needs.
type Request struct {
	Names              naming.NameSet
	Schema             *spec.CanonicalSchema
	Tables             []datagen.GeneratedTable
	EnableSemanticView bool
	EnableSearchIndex  bool
	EnableAgent        bool
	LanguageCode       string
}
