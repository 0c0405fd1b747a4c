package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns a mux with /healthz mounted. db may be nil when the dataset
// does not come from a database.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	return mux
}
