package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mongohouse/mongo-data-apis/db"
	e "github.com/mongohouse/mongo-data-apis/rest/errors"
	m "github.com/mongohouse/mongo-data-apis/rest/models"
)

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var err error
	var jsonBytes []byte
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	writeJSONBytes(w, jsonBytes, err, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, err error, code int) {
	if err != nil {
		RespondWithError(w, errors.New("unable to marshal response"), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	if jsonBytes != nil {
		w.Write(jsonBytes)
	}
}

func RespondWithError(w http.ResponseWriter, err error, code int) {
	requestError := m.ModelError{
		Description: err.Error(),
	}
	RespondJSONObjectWithCode(w, code, requestError)
}

// RespondWithDataError picks the status code from the error's type: missing
// resources map to 404, everything else goes through the request error path.
func RespondWithDataError(w http.ResponseWriter, err error) {
	var notFound *e.NotFoundError
	if errors.As(err, &notFound) {
		RespondWithError(w, err, http.StatusNotFound)
		return
	}
	RespondWithRequestError(w, err)
}

// RespondWithRequestError maps a build-time validation failure to a response.
func RespondWithRequestError(w http.ResponseWriter, err error) {
	var requestError *e.RequestError
	if !errors.As(err, &requestError) {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	code := http.StatusBadRequest
	if requestError.Kind() == e.StoreUnavailable {
		code = http.StatusServiceUnavailable
	}

	RespondJSONObjectWithCode(w, code, m.ModelError{
		Description:  requestError.Error(),
		InternalCode: requestError.Kind().String(),
	})
}

// RespondWithStoreError surfaces a failure that happened after the plan
// reached the store. These are terminal for the request, never retried.
func RespondWithStoreError(w http.ResponseWriter, err error) {
	if db.IsUnavailable(err) {
		RespondJSONObjectWithCode(w, http.StatusServiceUnavailable, m.ModelError{
			Description:  "store is unavailable",
			InternalCode: e.StoreUnavailable.String(),
		})
		return
	}

	RespondJSONObjectWithCode(w, http.StatusBadRequest, m.ModelError{
		Description:  err.Error(),
		InternalCode: e.QueryExecutionError.String(),
	})
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}
