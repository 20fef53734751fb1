// types package contains the public API types
// that are shared between the endpoint layers
package types

import "net/http"

type ModificationResult struct {
	Applied bool        `json:"applied"`
	Id      interface{} `json:"id,omitempty"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
