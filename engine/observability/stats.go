package observability

import (
	"context"
	"sort"
	"sync"

	"github.com/rockbears/log"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/ovh/layersync/sdk"
)

var (
	tagRegion = MustNewKey(TagRegion)
	tagPhase  = MustNewKey(TagPhase)

	uploadedBytes    = stats.Int64("layersync/upload/bytes", "number of bytes uploaded per region", stats.UnitBytes)
	regionsPublished = stats.Int64("layersync/regions/published", "number of layer versions published", stats.UnitDimensionless)
	regionsFailed    = stats.Int64("layersync/regions/failed", "number of regional failures by phase", stats.UnitDimensionless)

	uploadedBytesView    = NewViewSum(uploadedBytes.Name(), uploadedBytes, []tag.Key{tagRegion})
	regionsPublishedView = NewViewCount(regionsPublished.Name(), regionsPublished, []tag.Key{tagRegion})
	regionsFailedView    = NewViewCount(regionsFailed.Name(), regionsFailed, []tag.Key{tagRegion, tagPhase})

	registerOnce sync.Once
	registerErr  error
)

// RegisterViews begins collecting data for the layersync views
func RegisterViews(ctx context.Context) error {
	registerOnce.Do(func() {
		registerErr = view.Register(uploadedBytesView, regionsPublishedView, regionsFailedView)
		if registerErr == nil {
			log.Debug(ctx, "observability.RegisterViews> views registered")
		}
	})
	return registerErr
}

func record(ctx context.Context, m stats.Measurement, mutators ...tag.Mutator) {
	if err := stats.RecordWithTags(ctx, mutators, m); err != nil {
		log.Warn(ctx, "observability.record> unable to record %s: %v", m.Measure().Name(), err)
	}
}

// RecordUpload records the number of bytes sent to a region.
func RecordUpload(ctx context.Context, region sdk.Region, size int64) {
	record(ctx, uploadedBytes.M(size), tag.Upsert(tagRegion, string(region)))
}

// RecordPublished records a layer version published in a region.
func RecordPublished(ctx context.Context, region sdk.Region) {
	record(ctx, regionsPublished.M(1), tag.Upsert(tagRegion, string(region)))
}

// RecordFailure records a regional failure during a phase.
func RecordFailure(ctx context.Context, region sdk.Region, phase string) {
	record(ctx, regionsFailed.M(1), tag.Upsert(tagRegion, string(region)), tag.Upsert(tagPhase, phase))
}

// Summary is a snapshot of the recorded measures.
type Summary struct {
	UploadedBytes map[sdk.Region]int64
	Published     []sdk.Region
	Failures      map[string][]sdk.Region
}

// Snapshot reads the current value of the layersync views.
func Snapshot() (Summary, error) {
	s := Summary{
		UploadedBytes: make(map[sdk.Region]int64),
		Failures:      make(map[string][]sdk.Region),
	}

	rows, err := view.RetrieveData(uploadedBytesView.Name)
	if err != nil {
		return s, sdk.WithStack(err)
	}
	for _, r := range rows {
		if data, ok := r.Data.(*view.SumData); ok {
			s.UploadedBytes[sdk.Region(tagValue(r.Tags, tagRegion))] = int64(data.Value)
		}
	}

	rows, err = view.RetrieveData(regionsPublishedView.Name)
	if err != nil {
		return s, sdk.WithStack(err)
	}
	for _, r := range rows {
		s.Published = append(s.Published, sdk.Region(tagValue(r.Tags, tagRegion)))
	}
	sort.Slice(s.Published, func(i, j int) bool { return s.Published[i] < s.Published[j] })

	rows, err = view.RetrieveData(regionsFailedView.Name)
	if err != nil {
		return s, sdk.WithStack(err)
	}
	for _, r := range rows {
		phase := tagValue(r.Tags, tagPhase)
		s.Failures[phase] = append(s.Failures[phase], sdk.Region(tagValue(r.Tags, tagRegion)))
	}
	return s, nil
}

func tagValue(tags []tag.Tag, k tag.Key) string {
	for _, t := range tags {
		if t.Key == k {
			return t.Value
		}
	}
	return ""
}
