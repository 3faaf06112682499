package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
)

// muxCurrentRoute returns the registered path template for the request, if any
func muxCurrentRoute(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tpl
}
