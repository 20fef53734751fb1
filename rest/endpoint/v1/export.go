package endpoint

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongohouse/mongo-data-apis/db"
	"github.com/mongohouse/mongo-data-apis/rest/export"
	e "github.com/mongohouse/mongo-data-apis/rest/errors"
	t "github.com/mongohouse/mongo-data-apis/rest/translator"
)

// ExportDocuments re-applies the filter and sort of a browse request and
// streams the complete matching set. Pagination and redaction do not apply
// here: exports are unbounded and unredacted.
func (s *routeList) ExportDocuments(w http.ResponseWriter, r *http.Request) {
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

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
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
	if filter.IsRawPipeline() {
		RespondWithRequestError(w,
			e.NewRequestError(e.InvalidQuery, "raw pipelines cannot be exported"))
		return
	}

	sortSpec, err := translator.ToSort(r.URL.RawQuery)
	if err != nil {
		RespondWithRequestError(w, err)
		return
	}

	match := interface{}(bson.D{})
	if len(filter.Match) > 0 {
		match = filter.Match
	}

	cursor, err := s.dbClient.Find(r.Context(), databaseName, collectionName, match,
		&db.FindOptions{Sort: sortSpec})
	if err != nil {
		s.logger.Error("unable to open export cursor",
			"database", databaseName,
			"collection", collectionName,
			"error", err)
		RespondWithStoreError(w, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", collectionName, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	exporter := export.NewExporter(s.cfg.Naming())
	if err := exporter.Write(r.Context(), w, cursor, format); err != nil {
		// Headers are already on the wire; all that is left is to log and
		// cut the stream short.
		s.logger.Error("export stream failed",
			"database", databaseName,
			"collection", collectionName,
			"format", string(format),
			"error", err)
	}
}
