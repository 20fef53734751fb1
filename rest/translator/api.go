package translator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson"

	e "github.com/mongohouse/mongo-data-apis/rest/errors"
	m "github.com/mongohouse/mongo-data-apis/rest/models"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

// Field names of the combined count+slice stage. DecodeFacetResult relies
// on these when unpacking the store's reply.
const (
	facetDataField  = "data"
	facetCountField = "totalCount"
	facetCountKey   = "count"
)

// Filter is the outcome of the safe filter build. At most one of Match and
// Pipeline is set; both empty means "match everything". Pipeline is only
// ever set for callers that explicitly opted in to supplying raw stages.
type Filter struct {
	Match    bson.D
	Pipeline bson.A
}

func (f Filter) IsEmpty() bool {
	return len(f.Match) == 0 && f.Pipeline == nil
}

func (f Filter) IsRawPipeline() bool {
	return f.Pipeline != nil
}

// QueryOptions carries the validated non-filter query parts. Limit is the
// server-fixed page size, never client input.
type QueryOptions struct {
	Sort       bson.D
	Projection bson.D
	Skip       int64
	Limit      int64
}

// QueryTranslator builds document-store query plans from untrusted request
// parameters for a single database/collection pair.
type QueryTranslator struct {
	Database   string `validate:"required"`
	Collection string `validate:"required"`
}

// ToFilter builds the filter from the browse parameters. Precedence: a
// key/value pair wins over a textual query; with neither present the filter
// matches everything. Every failure is reported before any store access.
func (t QueryTranslator) ToFilter(query m.BrowseQuery) (Filter, error) {
	if err := inputValidator.Struct(t); err != nil {
		return Filter{}, e.TranslateValidatorError(err, trans)
	}

	if query.Key != "" && query.Value != "" {
		value, err := CoerceValue(query.Type, query.Value)
		if err != nil {
			return Filter{}, err
		}
		return Filter{Match: bson.D{{Key: query.Key, Value: value}}}, nil
	}

	if query.Query != "" {
		value, ok := EvaluateSafeExpression(query.Query)
		if !ok {
			return Filter{}, e.NewRequestError(e.InvalidQuery, "unable to parse query: %s", query.Query)
		}

		switch typed := value.(type) {
		case bson.D:
			return Filter{Match: typed}, nil
		case bson.A:
			if !query.RunAggregate {
				return Filter{}, e.NewRequestError(e.InvalidQuery,
					"pipeline-shaped query requires the runAggregate option")
			}
			return Filter{Pipeline: typed}, nil
		default:
			return Filter{}, e.NewRequestError(e.InvalidQuery,
				"query must be a document or a pipeline, got %T", value)
		}
	}

	return Filter{}, nil
}

// ToSort parses sort[field]=direction entries from the raw query string.
// The raw string is walked directly because entry order defines the
// tie-break order and url.Values would lose it.
func (t QueryTranslator) ToSort(rawQuery string) (bson.D, error) {
	var sort bson.D

	for _, entry := range strings.Split(rawQuery, "&") {
		if entry == "" {
			continue
		}

		pair := strings.SplitN(entry, "=", 2)
		key, err := url.QueryUnescape(pair[0])
		if err != nil {
			continue
		}

		if !strings.HasPrefix(key, "sort[") || !strings.HasSuffix(key, "]") {
			continue
		}
		field := key[len("sort[") : len(key)-1]
		if field == "" {
			return nil, e.NewRequestError(e.InvalidSort, "sort field name is empty")
		}

		rawDirection := ""
		if len(pair) == 2 {
			rawDirection, _ = url.QueryUnescape(pair[1])
		}

		direction, err := strconv.Atoi(strings.TrimSpace(rawDirection))
		if err != nil {
			return nil, e.NewRequestError(e.InvalidSort,
				"sort direction for %q is not a number: %q", field, rawDirection)
		}

		sort = append(sort, bson.E{Key: field, Value: direction})
	}

	return sort, nil
}

// ToProjection parses a textual projection expression. Invalid text yields
// an empty projection rather than an error; this path is deliberately more
// permissive than the filter path.
func (t QueryTranslator) ToProjection(text string) bson.D {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	value, ok := EvaluateSafeExpression(text)
	if !ok {
		return nil
	}

	if doc, ok := value.(bson.D); ok {
		return doc
	}
	return nil
}

// ToDocumentsPipeline assembles the full aggregation plan: the caller's raw
// stages or a synthesized match, then sort, then projection, then a single
// combined stage that reports the total matching count and the
// [skip, skip+limit) slice from one logical pass. Count and page are
// therefore always consistent with each other, if possibly stale relative
// to concurrent writes.
func (t QueryTranslator) ToDocumentsPipeline(filter Filter, options QueryOptions) (bson.A, error) {
	if err := inputValidator.Struct(t); err != nil {
		return nil, e.TranslateValidatorError(err, trans)
	}

	if options.Limit <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", options.Limit)
	}

	pipeline := bson.A{}

	if filter.IsRawPipeline() {
		pipeline = append(pipeline, filter.Pipeline...)
	} else if len(filter.Match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: filter.Match}})
	}

	if len(options.Sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: options.Sort}})
	}

	if len(options.Projection) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: options.Projection}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.D{
		{Key: facetDataField, Value: bson.A{
			bson.D{{Key: "$skip", Value: options.Skip}},
			bson.D{{Key: "$limit", Value: options.Limit}},
		}},
		{Key: facetCountField, Value: bson.A{
			bson.D{{Key: "$count", Value: facetCountKey}},
		}},
	}}})

	return pipeline, nil
}

// DecodeFacetResult unpacks the reply of a pipeline built by
// ToDocumentsPipeline into the page of documents and the total count.
func DecodeFacetResult(results []bson.M) ([]bson.M, int64, error) {
	if len(results) == 0 {
		return nil, 0, e.NewRequestError(e.QueryExecutionError, "store returned no result for the plan")
	}

	reply := results[0]

	rawDocuments, ok := reply[facetDataField].(bson.A)
	if !ok {
		return nil, 0, e.NewRequestError(e.QueryExecutionError,
			"store reply is missing the %q field", facetDataField)
	}

	documents := make([]bson.M, 0, len(rawDocuments))
	for _, item := range rawDocuments {
		document, ok := item.(bson.M)
		if !ok {
			return nil, 0, e.NewRequestError(e.QueryExecutionError,
				"store reply contains a non-document item: %T", item)
		}
		documents = append(documents, document)
	}

	total := int64(0)
	if rawCounts, ok := reply[facetCountField].(bson.A); ok && len(rawCounts) > 0 {
		countDocument, ok := rawCounts[0].(bson.M)
		if !ok {
			return nil, 0, e.NewRequestError(e.QueryExecutionError,
				"store reply contains a malformed count: %T", rawCounts[0])
		}
		total = toInt64(countDocument[facetCountKey])
	}

	return documents, total, nil
}

func toInt64(value interface{}) int64 {
	switch typed := value.(type) {
	case int32:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	}
	return 0
}
