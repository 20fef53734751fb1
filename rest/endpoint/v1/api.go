package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongohouse/mongo-data-apis/config"
	e "github.com/mongohouse/mongo-data-apis/rest/errors"
	m "github.com/mongohouse/mongo-data-apis/rest/models"
	"github.com/mongohouse/mongo-data-apis/rest/paging"
	"github.com/mongohouse/mongo-data-apis/rest/redact"
	t "github.com/mongohouse/mongo-data-apis/rest/translator"
	"github.com/mongohouse/mongo-data-apis/types"
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
		translated, _ := ut.T("required", fe.Field())
		return translated
	})
}

func (s *routeList) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.dbClient.Ping(r.Context()); err != nil {
		s.logger.Error("store ping failed", "error", err)
		RespondWithStoreError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, map[string]string{"status": "up"})
}

func (s *routeList) GetDatabases(w http.ResponseWriter, r *http.Request) {
	names, err := s.dbClient.Databases(r.Context())
	if err != nil {
		s.logger.Error("unable to list databases", "error", err)
		RespondWithStoreError(w, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, s.filterDatabases(names))
}

func (s *routeList) GetCollections(w http.ResponseWriter, r *http.Request) {
	databaseName := s.params(r, "databaseName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	names, err := s.dbClient.Collections(r.Context(), databaseName)
	if err != nil {
		s.logger.Error("unable to list collections", "database", databaseName, "error", err)
		RespondWithStoreError(w, err)
		return
	}

	if r.URL.Query().Get("stats") != "true" {
		RespondJSONObjectWithCode(w, http.StatusOK, names)
		return
	}

	stats := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		collStats, err := s.dbClient.CollectionStats(r.Context(), databaseName, name)
		if err != nil {
			s.logger.Error("unable to get collection stats",
				"database", databaseName,
				"collection", name,
				"error", err)
			RespondWithStoreError(w, err)
			return
		}
		stats = append(stats, map[string]interface{}{
			"name":  name,
			"count": collStats["count"],
			"size":  collStats["size"],
		})
	}
	RespondJSONObjectWithCode(w, http.StatusOK, stats)
}

func (s *routeList) GetDocuments(w http.ResponseWriter, r *http.Request) {
	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	query, err := parseBrowseQuery(r)
	if err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}
	if query.Skip < 0 {
		query.Skip = 0
	}

	translator := t.QueryTranslator{
		Database:   databaseName,
		Collection: collectionName,
	}

	filter, err := translator.ToFilter(query)
	if err != nil {
		RespondWithRequestError(w, err)
		return
	}

	sortSpec, err := translator.ToSort(r.URL.RawQuery)
	if err != nil {
		RespondWithRequestError(w, err)
		return
	}

	options := t.QueryOptions{
		Sort:       sortSpec,
		Projection: translator.ToProjection(query.Projection),
		Skip:       query.Skip,
		Limit:      s.cfg.PageSize(),
	}

	pipeline, err := translator.ToDocumentsPipeline(filter, options)
	if err != nil {
		RespondWithError(w, err, http.StatusInternalServerError)
		return
	}

	results, err := s.dbClient.Aggregate(r.Context(), databaseName, collectionName, pipeline)
	if err != nil {
		s.logger.Error("query plan rejected by store",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	documents, total, err := t.DecodeFacetResult(results)
	if err != nil {
		RespondWithRequestError(w, err)
		return
	}

	redactor := redact.New(s.cfg.FieldRedactionBytes(), s.cfg.DocumentRedactionBytes())
	documents = redactor.Documents(documents)

	rendered, err := jsonifyDocuments(documents)
	if err != nil {
		RespondWithError(w, err, http.StatusInternalServerError)
		return
	}

	result := m.DocumentsResult{
		Documents:  rendered,
		Columns:    columnsOf(rendered),
		Count:      total,
		Skip:       query.Skip,
		Limit:      options.Limit,
		Pagination: buildPagination(paging.Calculate(query.Skip, options.Limit, total), total),
		Key:        query.Key,
		Value:      query.Value,
		Type:       query.Type,
		Query:      query.Query,
		Projection: query.Projection,
		Sort:       sortEcho(sortSpec),
	}

	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (s *routeList) AddDocument(w http.ResponseWriter, r *http.Request) {
	if !s.operationSupported(w, config.DocumentInsert) {
		return
	}

	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithError(w, errors.New("unable to read payload"), http.StatusBadRequest)
		return
	}

	value, ok := t.EvaluateSafeExpression(string(body))
	if !ok {
		RespondWithRequestError(w,
			e.NewRequestError(e.InvalidLiteral, "payload is not a valid document"))
		return
	}
	document, ok := value.(bson.D)
	if !ok {
		RespondWithRequestError(w,
			e.NewRequestError(e.InvalidLiteral, "payload must be a single document"))
		return
	}

	insertedId, err := s.dbClient.InsertOne(r.Context(), databaseName, collectionName, document)
	if err != nil {
		s.logger.Error("unable to insert document",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, m.InsertResult{InsertedId: insertedId})
}

func (s *routeList) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.operationSupported(w, config.DocumentDelete) {
		return
	}

	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	documentId := s.params(r, "documentId")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	// Identifier failures get their own kind so callers see what was wrong
	// with the id instead of a generic parse error.
	id, err := t.CoerceValue(t.TypeObjectID, documentId)
	if err != nil {
		RespondWithRequestError(w, err)
		return
	}

	deleted, err := s.dbClient.DeleteOne(r.Context(), databaseName, collectionName,
		bson.D{{Key: "_id", Value: id}})
	if err != nil {
		s.logger.Error("unable to delete document",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	if deleted == 0 {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("document %q not found", documentId)))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, types.ModificationResult{Applied: true, Id: documentId})
}

func (s *routeList) DropCollection(w http.ResponseWriter, r *http.Request) {
	if !s.operationSupported(w, config.CollectionDrop) {
		return
	}

	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	if err := s.dbClient.DropCollection(r.Context(), databaseName, collectionName); err != nil {
		s.logger.Error("unable to drop collection",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, types.ModificationResult{Applied: true})
}

func (s *routeList) RenameCollection(w http.ResponseWriter, r *http.Request) {
	if !s.operationSupported(w, config.CollectionRename) {
		return
	}

	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	var payload m.CollectionRename
	if err := parseAndValidatePayload(&payload, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	if err := s.dbClient.RenameCollection(r.Context(), databaseName, collectionName, payload.Name); err != nil {
		s.logger.Error("unable to rename collection",
			"database", databaseName,
			"collection", collectionName,
			"target", payload.Name,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, types.ModificationResult{Applied: true})
}

func (s *routeList) GetIndexes(w http.ResponseWriter, r *http.Request) {
	databaseName := s.params(r, "databaseName")
	collectionName := s.params(r, "collectionName")
	if !s.databaseAllowed(databaseName) {
		RespondWithDataError(w, e.NewNotFoundError(fmt.Sprintf("database %q not found", databaseName)))
		return
	}

	indexes, err := s.dbClient.Indexes(r.Context(), databaseName, collectionName)
	if err != nil {
		s.logger.Error("unable to list indexes",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	rendered, err := jsonifyDocuments(indexes)
	if err != nil {
		RespondWithError(w, err, http.StatusInternalServerError)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, rendered)
}

func (s *routeList) operationSupported(w http.ResponseWriter, op config.Operations) bool {
	if s.cfg.SupportedOperations().IsSupported(op) {
		return true
	}
	RespondWithError(w, errors.New("operation is not enabled on this endpoint"), http.StatusMethodNotAllowed)
	return false
}

func (s *routeList) databaseAllowed(databaseName string) bool {
	if databaseName == "" {
		return false
	}
	if single := s.cfg.SingleDatabase(); single != "" && databaseName != single {
		return false
	}
	for _, excluded := range s.cfg.ExcludedDatabases() {
		if databaseName == excluded {
			return false
		}
	}
	return true
}

func (s *routeList) filterDatabases(names []string) []string {
	allowed := make([]string, 0, len(names))
	for _, name := range names {
		if s.databaseAllowed(name) {
			allowed = append(allowed, name)
		}
	}
	return allowed
}

func parseBrowseQuery(r *http.Request) (m.BrowseQuery, error) {
	raw := map[string]interface{}{}
	for key, list := range r.URL.Query() {
		if len(list) > 0 {
			raw[key] = list[0]
		}
	}

	var query m.BrowseQuery
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &query,
	})
	if err != nil {
		return query, err
	}
	if err := decoder.Decode(raw); err != nil {
		return query, fmt.Errorf("unable to parse request parameters: %v", err)
	}
	return query, nil
}

func parseAndValidatePayload(payload interface{}, r *http.Request) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.New("unable to read payload")
	}
	if err := json.Unmarshal(body, payload); err != nil {
		return errors.New("unable to parse payload")
	}
	if err := inputValidator.Struct(payload); err != nil {
		return e.TranslateValidatorError(err, trans)
	}
	return nil
}

// jsonifyDocuments converts store documents to plain JSON-marshalable maps
// through extended JSON, so identifiers, dates and binary values render in
// their canonical textual form.
func jsonifyDocuments(documents []bson.M) ([]map[string]interface{}, error) {
	rendered := make([]map[string]interface{}, 0, len(documents))
	for _, document := range documents {
		raw, err := bson.MarshalExtJSON(document, false, false)
		if err != nil {
			return nil, err
		}
		var item map[string]interface{}
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		rendered = append(rendered, item)
	}
	return rendered, nil
}

// columnsOf returns the union of keys across the page's documents,
// identity field first, the rest sorted for a stable echo.
func columnsOf(documents []map[string]interface{}) []string {
	seen := map[string]bool{}
	hasId := false
	var columns []string

	for _, document := range documents {
		for key := range document {
			if seen[key] {
				continue
			}
			seen[key] = true
			if key == "_id" {
				hasId = true
				continue
			}
			columns = append(columns, key)
		}
	}

	sort.Strings(columns)
	if hasId {
		columns = append([]string{"_id"}, columns...)
	}
	return columns
}

func buildPagination(windows paging.Windows, total int64) *m.Pagination {
	pagination := &m.Pagination{
		Here:             windows.Here,
		LastSkip:         windows.LastSkip,
		HasMultiplePages: windows.HasMultiplePages,
	}
	if pagination.LastSkip < 0 {
		pagination.LastSkip = 0
	}

	// Windows pointing before the first or past the last document are not
	// navigable and are left out of the render context.
	pagination.Prev = renderWindow(windows.Prev, total)
	pagination.Prev2 = renderWindow(windows.Prev2, total)
	pagination.Next = renderWindow(windows.Next, total)
	pagination.Next2 = renderWindow(windows.Next2, total)
	return pagination
}

func renderWindow(window paging.Window, total int64) *m.PageWindow {
	if window.Skip < 0 || window.Skip >= total {
		return nil
	}
	return &m.PageWindow{Page: window.Page, Skip: window.Skip}
}

func sortEcho(sortSpec bson.D) []m.SortEntry {
	if len(sortSpec) == 0 {
		return nil
	}
	echo := make([]m.SortEntry, 0, len(sortSpec))
	for _, clause := range sortSpec {
		direction, _ := clause.Value.(int)
		echo = append(echo, m.SortEntry{Field: clause.Key, Direction: direction})
	}
	return echo
}
