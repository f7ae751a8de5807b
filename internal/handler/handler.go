// Package handler exposes the raid and expedition services over JSON HTTP.
//
// Handlers decode and validate the request, call one service method and map
// domain errors to status codes in mapServiceErrorToUserMessage. Routing lives
// in the server package.
package handler

import (
	"context"
	"net/http"
)

// handleAction runs the flow shared by every handler that decodes a body,
// calls the service once and answers with the result
func handleAction[REQ any, RES any](
	w http.ResponseWriter,
	r *http.Request,
	opName string,
	status int,
	action func(context.Context, *REQ) (RES, error),
) {
	var req REQ
	if err := DecodeAndValidateRequest(r, w, &req, opName); err != nil {
		return
	}

	res, err := action(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}

	respondJSON(w, status, res)
}
