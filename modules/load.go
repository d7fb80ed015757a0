package modules

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folioworks/vitae/modules/career/infrastructure/persistence"
	careercontrollers "github.com/folioworks/vitae/modules/career/presentation/controllers"
	careerservices "github.com/folioworks/vitae/modules/career/services"
	"github.com/folioworks/vitae/modules/importer/domain/match"
	"github.com/folioworks/vitae/modules/importer/domain/parse"
	"github.com/folioworks/vitae/modules/importer/infrastructure/staging"
	importercontrollers "github.com/folioworks/vitae/modules/importer/presentation/controllers"
	importerservices "github.com/folioworks/vitae/modules/importer/services"
	"github.com/folioworks/vitae/pkg/eventbus"
	"github.com/folioworks/vitae/pkg/kv"
	"github.com/folioworks/vitae/pkg/server"
)

// Options carries the shared infrastructure every module wires against.
type Options struct {
	Pool              *pgxpool.Pool
	KV                kv.Store
	EventBus          eventbus.EventBus
	Parser            parse.Parser
	SessionTTL        time.Duration
	WorkspaceIDHeader string
	MaxPageSize       int
	MaxUploadSize     int64
}

// Load assembles the career and importer modules and returns their HTTP
// controllers in registration order.
func Load(opts *Options) []server.Controller {
	parser := opts.Parser
	if parser == nil {
		parser = parse.NewJSONParser()
	}

	records := persistence.NewRecordRepository(opts.Pool)
	recordService := careerservices.NewRecordService(records, opts.EventBus)

	sessions := staging.NewSessionStore(opts.KV, opts.SessionTTL)
	committer := importerservices.NewCommitter(sessions, records, opts.EventBus)
	importService := importerservices.NewImportService(
		parser,
		match.NewMatcher(),
		records,
		sessions,
		committer,
		opts.EventBus,
	)

	return []server.Controller{
		careercontrollers.NewRecordAPIController(recordService, opts.WorkspaceIDHeader, opts.MaxPageSize),
		importercontrollers.NewImportAPIController(importService, opts.WorkspaceIDHeader, opts.MaxUploadSize),
	}
}
