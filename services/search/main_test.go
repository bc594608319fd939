package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vitigen/api/models"
	s "vitigen/api/models/constants/sort"
	"vitigen/api/models/uploads"
	"vitigen/api/models/variants"
	"vitigen/api/repositories/mongodb"
)

// registryStub stands in for the upload registry so ownership behavior
// can be exercised without a database behind it
type registryStub struct {
	record *uploads.UploadRecord
	err    error
}

func (r *registryStub) FindOwned(ctx context.Context, collectionName string, ownerEmail string) (*uploads.UploadRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.record, nil
}

func TestSearchDeniedBeforeAnyVariantQuery(t *testing.T) {
	cfg := &models.Config{}

	// a nil database proves denial happens before any variant query :
	// touching it would panic the test
	svc := NewSearchService(nil, &registryStub{
		err: fmt.Errorf("%w : somebody-elses-collection", mongodb.ErrPermissionDenied),
	}, cfg)

	result, searchErr := svc.Search(context.Background(), SearchParams{
		CollectionName: "somebody-elses-collection",
		RequesterEmail: "requester@vitigenlabs.example",
		Page:           1,
		PerPage:        25,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, searchErr, mongodb.ErrPermissionDenied)
}

func TestSearchUnknownCollection(t *testing.T) {
	cfg := &models.Config{}

	svc := NewSearchService(nil, &registryStub{
		err: fmt.Errorf("%w : no-such-collection", mongodb.ErrNotFound),
	}, cfg)

	result, searchErr := svc.Search(context.Background(), SearchParams{
		CollectionName: "no-such-collection",
		RequesterEmail: "requester@vitigenlabs.example",
		Page:           1,
		PerPage:        25,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, searchErr, mongodb.ErrNotFound)
}

func TestBuildSearchFilterEmptyTermMatchesEverything(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildSearchFilter(""))
	assert.Equal(t, bson.M{}, BuildSearchFilter("   "))
}

func TestBuildSearchFilterCoversSearchableFields(t *testing.T) {
	filter := BuildSearchFilter("pass")

	clauses, ok := filter["$or"].([]bson.M)
	assert.True(t, ok)
	assert.Len(t, clauses, len(searchableFields))

	for i, field := range searchableFields {
		regex, regexOk := clauses[i][field].(primitive.Regex)
		assert.True(t, regexOk)
		assert.Equal(t, "pass", regex.Pattern)
		assert.Equal(t, "i", regex.Options)
	}
}

func TestBuildSearchFilterEscapesRegexMetacharacters(t *testing.T) {
	filter := BuildSearchFilter("DP=10.*")

	clauses := filter["$or"].([]bson.M)
	regex := clauses[0][searchableFields[0]].(primitive.Regex)

	// the term is matched literally, never as a pattern
	assert.Equal(t, `DP=10\.\*`, regex.Pattern)
}

func TestResolveSortDefaultsToInsertionIdentity(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, ResolveSort("", s.Ascending))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, ResolveSort("  ", s.Descending))
}

func TestResolveSortMapsAliases(t *testing.T) {
	assert.Equal(t, "chromosome", ResolveSort("chrom", s.Ascending)[0].Key)
	assert.Equal(t, "position", ResolveSort("pos", s.Descending)[0].Key)
	assert.Equal(t, -1, ResolveSort("pos", s.Descending)[0].Value)
	assert.Equal(t, "quality", ResolveSort("QUAL", s.Ascending)[0].Key)
	assert.Equal(t, "filter_status", ResolveSort("filter", s.Ascending)[0].Key)
}

func TestResolveSortPassesUnknownFieldsThrough(t *testing.T) {
	assert.Equal(t, "somefield", ResolveSort("somefield", s.Ascending)[0].Key)
}

// every non-_id sort carries a secondary _id key : equal-keyed documents
// must order identically in all fan-out sub-queries or disjoint windows
// stop reassembling into the single-query page
func TestResolveSortTotalOrder(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "filter_status", Value: 1}, {Key: "_id", Value: 1}},
		ResolveSort("filter", s.Ascending))
	assert.Equal(t,
		bson.D{{Key: "chromosome", Value: -1}, {Key: "_id", Value: -1}},
		ResolveSort("chrom", s.Descending))
	assert.Equal(t,
		bson.D{{Key: "somefield", Value: 1}, {Key: "_id", Value: 1}},
		ResolveSort("somefield", s.Ascending))

	// _id alone is already total
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, ResolveSort("", s.Ascending))
}

func TestAsSearchErrorMapsExpiredDeadlineToTimeout(t *testing.T) {
	svc := NewSearchService(nil, &registryStub{}, &models.Config{})

	// a deadline failure surfaced by the driver itself
	mappedErr := svc.asSearchError(context.Background(), context.DeadlineExceeded, time.Second)
	assert.ErrorIs(t, mappedErr, ErrQueryTimeout)

	// a driver failure of another shape while the shared deadline has
	// expired still counts as the timeout, never a partial page
	expiredCtx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	mappedErr = svc.asSearchError(expiredCtx, errors.New("cursor closed"), time.Second)
	assert.ErrorIs(t, mappedErr, ErrQueryTimeout)
}

func TestAsSearchErrorPassesOtherFailuresThrough(t *testing.T) {
	svc := NewSearchService(nil, &registryStub{}, &models.Config{})

	backendErr := errors.New("connection reset")
	mappedErr := svc.asSearchError(context.Background(), backendErr, time.Second)

	assert.NotErrorIs(t, mappedErr, ErrQueryTimeout)
	assert.ErrorIs(t, mappedErr, backendErr)
}

func TestShapeVariantUsesShortKeys(t *testing.T) {
	row := ShapeVariant(&variants.Variant{
		Chromosome:   "1",
		Position:     100,
		Id:           "rs1",
		Reference:    "A",
		Alternate:    "G",
		Quality:      30.0,
		FilterStatus: "PASS",
		Info:         "DP=10",
		Format:       "GT",
		Outputs: []variants.SampleOutput{
			{Name: "S1", Value: "0/1"},
			{Name: "S2", Value: "1/1"},
		},
	})

	assert.Equal(t, "1", row["chrom"])
	assert.Equal(t, 100, row["pos"])
	assert.Equal(t, "rs1", row["id"])
	assert.Equal(t, "A", row["ref"])
	assert.Equal(t, "G", row["alt"])
	assert.Equal(t, 30.0, row["qual"])
	assert.Equal(t, "PASS", row["filter"])
	assert.Equal(t, "DP=10", row["info"])
	assert.Equal(t, "GT", row["format"])

	// sample outputs are flattened to top-level keys
	assert.Equal(t, "0/1", row["S1"])
	assert.Equal(t, "1/1", row["S2"])
}

func TestShapeVariantNamespacesCollidingSampleNames(t *testing.T) {
	row := ShapeVariant(&variants.Variant{
		Chromosome: "1",
		Position:   100,
		Format:     "GT",
		Outputs: []variants.SampleOutput{
			// a sample named after a fixed field must not overwrite it
			{Name: "format", Value: "0/1"},
		},
	})

	assert.Equal(t, "GT", row["format"])
	assert.Equal(t, "0/1", row["sample_format"])
}
