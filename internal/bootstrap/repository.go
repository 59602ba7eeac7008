package bootstrap

import (
	outcomeinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/outcome"
	segmentinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/segment"
	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
)

// Repository is the repository set of the pipeline.
type Repository struct {
	TickRepository    tickinfra.TickRepository
	SegmentRepository segmentinfra.SegmentRepository
	OutcomeRepository outcomeinfra.OutcomeRepository
}

// registerRepository registers the repositories.
func (b *Bootstrap) registerRepository(mapping tickinfra.FieldMapping) {
	b.Repository.TickRepository = tickinfra.NewRepository(b.Postgres, mapping)
	b.Repository.SegmentRepository = segmentinfra.NewRepository(b.Postgres)
	b.Repository.OutcomeRepository = outcomeinfra.NewRepository(b.Postgres)
}
