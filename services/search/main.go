package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"vitigen/api/models"
	"vitigen/api/models/constants"
	s "vitigen/api/models/constants/sort"
	"vitigen/api/models/dtos"
	"vitigen/api/models/uploads"
	"vitigen/api/models/variants"
	"vitigen/api/repositories/mongodb"
	"vitigen/api/utils"
)

// Partitions is the fan-out degree of a page request : every page is
// reconstructed from this many disjoint, contiguous sub-window queries.
const Partitions = 4

var ErrQueryTimeout = errors.New("search timed out")

// substring search runs as an OR across these stored fields
var searchableFields = []string{
	"chromosome", "filter_status", "info", "format", "id", "reference", "alternate",
}

// external short names accepted as sort keys; unknown keys pass through
var sortFieldAliases = map[string]string{
	"chrom":  "chromosome",
	"pos":    "position",
	"id":     "id",
	"ref":    "reference",
	"alt":    "alternate",
	"qual":   "quality",
	"filter": "filter_status",
	"info":   "info",
	"format": "format",
}

type (
	// UploadLookup is the slice of the upload registry the search
	// service depends on : ownership resolution only.
	UploadLookup interface {
		FindOwned(ctx context.Context, collectionName string, ownerEmail string) (*uploads.UploadRecord, error)
	}

	SearchParams struct {
		Term           string
		CollectionName string
		SortBy         string
		SortOrder      constants.SortDirection
		RequesterEmail string
		Page           int
		PerPage        int
		Timeout        time.Duration
	}

	SearchService struct {
		Config   *models.Config
		Database *mongo.Database
		Uploads  UploadLookup
	}
)

func NewSearchService(db *mongo.Database, uploadRepo UploadLookup, cfg *models.Config) *SearchService {
	return &SearchService{
		Config:   cfg,
		Database: db,
		Uploads:  uploadRepo,
	}
}

// Search serves one paginated, filtered, sorted page over an upload's
// collection. The ownership check runs first and short-circuits before
// any query reaches the variant collection; the remaining backend calls
// (count plus the partitioned window queries) all share one timeout, and
// expiry fails the call as a whole - no partial page is ever returned.
func (svc *SearchService) Search(ctx context.Context, params SearchParams) (*dtos.SearchResponseDTO, error) {
	if _, accessErr := svc.Uploads.FindOwned(ctx, params.CollectionName, params.RequesterEmail); accessErr != nil {
		return nil, accessErr
	}

	filter := BuildSearchFilter(params.Term)
	sortDoc := ResolveSort(params.SortBy, params.SortOrder)

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = time.Duration(svc.Config.Api.SearchTimeoutSeconds) * time.Second
	}

	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	total, countErr := mongodb.CountVariants(queryCtx, svc.Database, params.CollectionName, filter)
	if countErr != nil {
		return nil, svc.asSearchError(queryCtx, countErr, timeout)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	skip := utils.PageSkip(page, params.PerPage)
	windows := utils.PartitionWindow(skip, params.PerPage, Partitions)

	// one result slot per sub-window; concatenating the slots in
	// sub-window order reconstructs the page
	partitioned := make([][]map[string]interface{}, Partitions)

	g, groupCtx := errgroup.WithContext(queryCtx)
	for i, window := range windows {
		if window.Limit <= 0 {
			continue
		}

		i, window := i, window
		g.Go(func() error {
			documents, windowErr := mongodb.GetVariantsWindow(
				groupCtx, svc.Config, svc.Database, params.CollectionName,
				filter, sortDoc, window.Skip, window.Limit)
			if windowErr != nil {
				return windowErr
			}

			partitioned[i] = documents
			return nil
		})
	}

	if waitErr := g.Wait(); waitErr != nil {
		return nil, svc.asSearchError(queryCtx, waitErr, timeout)
	}

	results := make([]map[string]interface{}, 0, params.PerPage)
	for _, documents := range partitioned {
		for _, document := range documents {
			var record variants.Variant
			if decodeErr := mapstructure.Decode(document, &record); decodeErr != nil {
				return nil, fmt.Errorf("failed to decode stored variant from %s : %w",
					params.CollectionName, decodeErr)
			}

			results = append(results, ShapeVariant(&record))
		}
	}

	return &dtos.SearchResponseDTO{
		TotalResults: total,
		Page:         page,
		PerPage:      params.PerPage,
		TotalPages:   utils.TotalPages(total, params.PerPage),
		Results:      results,
	}, nil
}

// asSearchError maps a backend failure under an expired deadline to the
// all-or-nothing timeout error; everything else passes through.
func (svc *SearchService) asSearchError(queryCtx context.Context, queryErr error, timeout time.Duration) error {
	if errors.Is(queryErr, context.DeadlineExceeded) || errors.Is(queryCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrQueryTimeout, timeout)
	}
	return queryErr
}

// BuildSearchFilter turns a free-text term into a case-insensitive
// substring predicate across the searchable fields. The term is taken
// literally - it is escaped, never interpreted as a pattern language.
// An empty term matches everything.
func BuildSearchFilter(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}

	pattern := regexp.QuoteMeta(term)

	or := make([]bson.M, 0, len(searchableFields))
	for _, field := range searchableFields {
		or = append(or, bson.M{
			field: primitive.Regex{Pattern: pattern, Options: "i"},
		})
	}

	return bson.M{"$or": or}
}

// ResolveSort maps an external sort key to its stored field name through
// the alias table (unknown keys pass through unchanged) and applies the
// direction. With no sort key, pages follow ascending insertion identity.
// A secondary _id key always follows a non-_id primary : the fan-out
// sub-queries sort independently, and without a total order equal-keyed
// documents could straddle window boundaries differently per sub-query,
// duplicating or dropping records in the reassembled page.
func ResolveSort(sortBy string, direction constants.SortDirection) bson.D {
	order := 1
	if direction == s.Descending {
		order = -1
	}

	if strings.TrimSpace(sortBy) == "" {
		return bson.D{{Key: "_id", Value: order}}
	}

	field := sortBy
	if alias, ok := sortFieldAliases[strings.ToLower(sortBy)]; ok {
		field = alias
	}

	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}
}

// ShapeVariant re-keys a stored record to the external short field names
// and flattens its sample outputs to top-level keys. A sample name that
// collides with a fixed field name is namespaced with a "sample_" prefix
// rather than overwriting the fixed field.
func ShapeVariant(record *variants.Variant) map[string]interface{} {
	row := map[string]interface{}{
		"chrom":  record.Chromosome,
		"pos":    record.Position,
		"id":     record.Id,
		"ref":    record.Reference,
		"alt":    record.Alternate,
		"qual":   record.Quality,
		"filter": record.FilterStatus,
		"info":   record.Info,
		"format": record.Format,
	}

	for _, output := range record.Outputs {
		key := output.Name
		if utils.KeyExists(row, key) {
			key = "sample_" + key
		}
		row[key] = output.Value
	}

	return row
}
