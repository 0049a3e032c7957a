package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/importer"
)

type uploadRequest struct {
	Killer    string `json:"kill"`
	Victim    string `json:"victim"`
	Distance  string `json:"distance"`
	Weapon    string `json:"weapon"`
	Timestamp string `json:"timestamp"`
	IDDiscord string `json:"idDiscord"`
	RowNumber int    `json:"rowNumber"`
}

type uploadResponse struct {
	Status  importer.Status `json:"status"`
	Message string          `json:"message,omitempty"`
}

// handleUpload ingests a single kill record, as posted row by row by the
// web importer. A duplicate is a normal outcome, not an error.
// POST /api/upload
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) {
	var body uploadRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.IDDiscord == "" {
		writeError(w, http.StatusBadRequest, "idDiscord is required")
		return
	}

	rowNumber := body.RowNumber
	if rowNumber <= 0 {
		rowNumber = 1
	}

	pipeline := importer.New(r.store, func(kill domain.Kill) {
		r.wsHub.BroadcastKill(kill)
	})

	result, err := pipeline.Run(req.Context(), []importer.Record{{
		Killer:     importer.StripEmoticons(body.Killer),
		Victim:     importer.StripEmoticons(body.Victim),
		Distance:   body.Distance,
		Weapon:     body.Weapon,
		Timestamp:  body.Timestamp,
		ExternalID: body.IDDiscord,
		RowNumber:  rowNumber,
	}})
	if err != nil {
		log.Printf("Error uploading kill record: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to upload kill record")
		return
	}

	outcome := result.Outcomes[0]
	r.metrics.ObserveBatch()
	r.metrics.ObserveImport(string(outcome.Status))
	if outcome.Status == importer.StatusError {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Status: outcome.Status, Message: outcome.Message})
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Status: outcome.Status, Message: outcome.Message})
}
