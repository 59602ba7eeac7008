package bootstrap

import (
	"time"

	outcomev1 "github.com/8abak/ctrade-segments/internal/domain/outcome/v1"
	segmentv1 "github.com/8abak/ctrade-segments/internal/domain/segment/v1"
	"github.com/8abak/ctrade-segments/internal/usecase/resolver"
	"github.com/8abak/ctrade-segments/internal/usecase/segmenter"
)

// Usecase is the usecase set of the pipeline: one segmenter per scale
// plus the outcome resolver. Scales share no mutable state and may run
// in parallel.
type Usecase struct {
	Segmenters map[segmentv1.Scale]*segmenter.Usecase
	Resolver   *resolver.Usecase
}

// registerUsecase registers the usecases.
func (b *Bootstrap) registerUsecase() {
	cfg := b.Config.Segmenter

	thresholds := map[segmentv1.Scale]float64{
		segmentv1.ScaleMicro:  cfg.MicroThreshold,
		segmentv1.ScaleMedium: cfg.MediumThreshold,
		segmentv1.ScaleMacro:  cfg.MacroThreshold,
	}

	b.Usecase.Segmenters = make(map[segmentv1.Scale]*segmenter.Usecase, len(thresholds))
	for scale, threshold := range thresholds {
		b.Usecase.Segmenters[scale] = segmenter.NewUsecase(
			b.Postgres,
			b.Repository.TickRepository,
			b.Repository.SegmentRepository,
			b.Logger,
			segmenter.Params{
				Scale:             scale,
				Threshold:         threshold,
				SubThreshold:      threshold * cfg.SubMoveRatio,
				GapThreshold:      cfg.GapThreshold,
				BatchSize:         cfg.BatchSize,
				MaxSegmentsPerRun: cfg.MaxSegmentsPerRun,
				MaxTicksPerRun:    cfg.MaxTicksPerRun,
				LiveExtend:        cfg.LiveExtend,
			},
		)
	}

	b.Usecase.Resolver = resolver.NewUsecase(
		b.Repository.TickRepository,
		b.Repository.SegmentRepository,
		b.Repository.OutcomeRepository,
		b.Logger,
		resolver.Params{
			TargetDistance: b.Config.Resolver.TargetDistance,
			StopDistance:   b.Config.Resolver.StopDistance,
			Horizon:        resolverHorizon(b.Config.Resolver.HorizonTicks, b.Config.Resolver.HorizonDuration),
			OnEmptyForward: resolver.EmptyForwardPolicy(b.Config.Resolver.OnEmptyForward),
			BatchSize:      b.Config.Resolver.BatchSize,
			ForwardFetch:   b.Config.Resolver.ForwardFetch,
			SeedScale:      segmentv1.Scale(b.Config.Resolver.SeedScale),
		},
	)
}

func resolverHorizon(ticks int, duration time.Duration) outcomev1.Horizon {
	if duration > 0 {
		return outcomev1.DurationHorizon(duration)
	}
	return outcomev1.TicksHorizon(ticks)
}
