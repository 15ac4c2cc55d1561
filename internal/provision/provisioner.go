package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/demoforgehq/demoforge/pkg/logger"

	"github.com/demoforgehq/demoforge/internal/datagen"
	"github.com/demoforgehq/demoforge/internal/spec"
)

const blockedDetail = "blocked by prerequisite failure"

// Provisioner executes the provisioning pipeline. Stages run strictly in
// order: SCHEMA → TABLES → SEMANTIC_VIEW → SEARCH_INDEX → AGENT. The first
// two are mandatory; a failure there halts the pipeline and the remaining
// enabled stages are recorded as skipped. The last three are optional and
// independently enabled; a failure there is recorded and the pipeline
// continues.
type Provisioner struct {
	platform Platform
	log      *logger.Logger
}

// New returns a Provisioner bound to a platform.
func New(platform Platform, log *logger.Logger) *Provisioner {
	if log == nil {
		log = logger.New("provision")
	}
	return &Provisioner{platform: platform, log: log}
}

// Provision runs the pipeline and returns the ordered resource records.
// The records are the authoritative account of the run: one entry per
// executed or blocked stage, each with a terminal status. Disabled stages
// produce no record. Already-created resources are never rolled back;
// cleanup after a partial run is an external, manual operation.
func (p *Provisioner) Provision(ctx context.Context, req Request) []Resource {
	var results []Resource
	mandatoryFailed := false

	// SCHEMA
	res := Resource{Kind: ResourceSchema, Name: req.Names.Schema, Status: StatusPending}
	p.log.Infof("creating schema %s", req.Names.Schema)
	if err := p.platform.CreateSchema(ctx, req.Names.Schema); err != nil {
		err = &StageError{Stage: StageSchema, Resource: req.Names.Schema, Err: err}
		p.log.Errorf("schema stage failed: %v", err)
		res.Status = StatusFailed
		res.Detail = err.Error()
		mandatoryFailed = true
	} else {
		res.Status = StatusCreated
	}
	results = append(results, res)

	// TABLES
	if mandatoryFailed {
		results = append(results, Resource{
			Kind: ResourceTable, Name: req.Names.Schema, Status: StatusSkipped, Detail: blockedDetail,
		})
	} else {
		res = p.provisionTables(ctx, req)
		if res.Status == StatusFailed {
			mandatoryFailed = true
		}
		results = append(results, res)
	}

	// SEMANTIC_VIEW
	var semanticViewReady bool
	if req.EnableSemanticView {
		if mandatoryFailed {
			results = append(results, Resource{
				Kind: ResourceSemanticView, Name: req.Names.SemanticView, Status: StatusSkipped, Detail: blockedDetail,
			})
		} else {
			res = p.provisionSemanticView(ctx, req)
			semanticViewReady = res.Status == StatusCreated
			results = append(results, res)
		}
	}

	// SEARCH_INDEX
	var searchIndexReady bool
	if req.EnableSearchIndex {
		if mandatoryFailed {
			results = append(results, Resource{
				Kind: ResourceSearchIndex, Name: req.Names.SearchIndex, Status: StatusSkipped, Detail: blockedDetail,
			})
		} else {
			res = p.provisionSearchIndex(ctx, req)
			searchIndexReady = res.Status == StatusCreated
			results = append(results, res)
		}
	}

	// AGENT
	if req.EnableAgent {
		if mandatoryFailed {
			results = append(results, Resource{
				Kind: ResourceAgent, Name: req.Names.Agent, Status: StatusSkipped, Detail: blockedDetail,
			})
		} else {
			results = append(results, p.provisionAgent(ctx, req, semanticViewReady, searchIndexReady))
		}
	}

	return results
}

func (p *Provisioner) provisionTables(ctx context.Context, req Request) Resource {
	res := Resource{Kind: ResourceTable, Name: req.Names.Schema, Status: StatusPending}

	var created []string
	for _, gt := range req.Tables {
		pk := primaryKeyFor(req.Schema, gt)
		p.log.Infof("creating table %s.%s (%d rows)", req.Names.Schema, gt.Name, len(gt.Rows))
		if err := p.platform.CreateTable(ctx, req.Names.Schema, gt, pk); err != nil {
			err = &StageError{Stage: StageTables, Resource: gt.Name, Err: err}
			p.log.Errorf("tables stage failed: %v", err)
			res.Status = StatusFailed
			res.Detail = err.Error()
			return res
		}
		created = append(created, gt.Name)
	}

	res.Status = StatusCreated
	res.Detail = fmt.Sprintf("%d tables: %s", len(created), strings.Join(created, ", "))
	return res
}

func (p *Provisioner) provisionSemanticView(ctx context.Context, req Request) Resource {
	res := Resource{Kind: ResourceSemanticView, Name: req.Names.SemanticView, Status: StatusPending}

	def := SemanticViewDef{
		Name:          req.Names.SemanticView,
		Relationships: req.Schema.Relationships,
		Questions:     req.Schema.TargetQuestions,
	}
	for _, t := range req.Schema.Tables {
		if t.Kind == spec.KindUnstructured {
			continue
		}
		def.Tables = append(def.Tables, SemanticTable{
			Name:       t.Name,
			Kind:       t.Kind,
			PrimaryKey: t.PrimaryKey,
			Columns:    t.Columns,
		})
	}
	if len(def.Tables) < 2 {
		res.Status = StatusSkipped
		res.Detail = "requires at least two structured tables"
		return res
	}

	p.log.Infof("creating semantic view %s over %d tables", def.Name, len(def.Tables))
	if err := p.platform.CreateSemanticView(ctx, req.Names.Schema, def); err != nil {
		err = &StageError{Stage: StageSemanticView, Resource: def.Name, Err: err}
		p.log.Warnf("semantic view stage failed, continuing: %v", err)
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}
	res.Status = StatusCreated
	return res
}

func (p *Provisioner) provisionSearchIndex(ctx context.Context, req Request) Resource {
	res := Resource{Kind: ResourceSearchIndex, Name: req.Names.SearchIndex, Status: StatusPending}

	chunkTable := ""
	for _, gt := range req.Tables {
		if gt.Kind == spec.KindUnstructured {
			chunkTable = gt.Name
			break
		}
	}
	if chunkTable == "" {
		res.Status = StatusSkipped
		res.Detail = "spec has no unstructured table"
		return res
	}

	def := SearchIndexDef{
		Name:       req.Names.SearchIndex,
		Table:      chunkTable,
		TextColumn: "CHUNK_TEXT",
		Language:   req.LanguageCode,
	}
	p.log.Infof("creating search index %s over %s", def.Name, chunkTable)
	if err := p.platform.CreateSearchIndex(ctx, req.Names.Schema, def); err != nil {
		err = &StageError{Stage: StageSearchIndex, Resource: def.Name, Err: err}
		p.log.Warnf("search index stage failed, continuing: %v", err)
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}
	res.Status = StatusCreated
	return res
}

func (p *Provisioner) provisionAgent(ctx context.Context, req Request, semanticViewReady, searchIndexReady bool) Resource {
	res := Resource{Kind: ResourceAgent, Name: req.Names.Agent, Status: StatusPending}

	def := AgentDef{
		Name:            req.Names.Agent,
		DisplayName:     req.Schema.Title,
		SampleQuestions: req.Schema.TargetQuestions,
	}
	if semanticViewReady {
		def.SemanticView = req.Names.SemanticView
	}
	if searchIndexReady {
		def.SearchIndex = req.Names.SearchIndex
	}

	var missing []string
	if req.EnableSemanticView && !semanticViewReady {
		missing = append(missing, "semantic view")
	}
	if req.EnableSearchIndex && !searchIndexReady {
		missing = append(missing, "search index")
	}

	p.log.Infof("creating agent %s", def.Name)
	if err := p.platform.CreateAgent(ctx, req.Names.Schema, def); err != nil {
		err = &StageError{Stage: StageAgent, Resource: def.Name, Err: err}
		p.log.Warnf("agent stage failed: %v", err)
		res.Status = StatusFailed
		res.Detail = err.Error()
		return res
	}

	res.Status = StatusCreated
	if len(missing) > 0 {
		res.Detail = fmt.Sprintf("reduced capability: created without %s", strings.Join(missing, " and "))
	}
	return res
}

func primaryKeyFor(schema *spec.CanonicalSchema, gt datagen.GeneratedTable) string {
	if t := schema.Table(gt.Name); t != nil {
		return t.PrimaryKey
	}
	// Chunk tables are renamed with the _CHUNKS suffix and always key on
	// CHUNK_ID.
	if gt.Kind == spec.KindUnstructured {
		return "CHUNK_ID"
	}
	return ""
}
