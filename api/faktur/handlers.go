package faktur

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"BridgingTomoro/api"
	"BridgingTomoro/internal/checksum"
	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/ingest"
	"BridgingTomoro/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UploadHandler accepts a multipart upload (fields: file, user_id, optional
// checksum) and parses it into the operator's session. A new upload always
// replaces whatever session the operator had before.
func UploadHandler(store *sessionStore, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		userID := strings.TrimSpace(r.FormValue("user_id"))
		if userID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		if _, err := validation.PreValidateRequest(r.Context(), pool, userID); err != nil {
			api.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadBytes+1))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "failed to read file")
			return
		}
		if int64(len(data)) > config.MaxUploadBytes {
			api.RespondWithError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
			return
		}

		hash := checksum.FileHash(data)
		if expected := strings.TrimSpace(r.FormValue("checksum")); expected != "" {
			matcher := checksum.NewMatcher(expected)
			ok, err := matcher.Match(data)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			if !ok {
				api.RespondWithError(w, http.StatusBadRequest, "checksum mismatch, file may be corrupted")
				return
			}
		}

		sess, err := ingestUpload(store, userID, header.Filename, hash, data)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Printf("[AUDIT] user %s uploaded %s (%d rows)", userID, header.Filename, len(sess.Set.Records))
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"file_name": header.Filename,
			"file_hash": hash,
			"headers":   sess.Set.Headers,
			"preview":   previewRecords(sess.Set, previewLimit),
			"row_count": len(sess.Set.Records),
		})
	}
}

const previewLimit = 5

// ingestUpload parses uploaded bytes into a fresh session for the operator.
// A file that yields no headers drops any stored session as well, so stale
// data from an earlier upload can never be submitted after a failed one.
func ingestUpload(store *sessionStore, userID, filename, hash string, data []byte) (*ingest.Session, error) {
	var set ingest.RecordSet
	if ingest.LooksLikeWorkbook(filename) {
		set = ingest.ParseWorkbook(data)
	} else {
		set = ingest.ParseCSV(string(data))
	}
	if len(set.Headers) == 0 {
		store.drop(userID)
		return nil, errors.New("no parseable rows found in file")
	}

	sess := &ingest.Session{}
	sess.LoadFile(filename, hash, set)
	store.replace(userID, sess)
	return sess, nil
}

// previewRecords returns the first n records for the upload response; the
// full set stays server-side in the session.
func previewRecords(set ingest.RecordSet, n int) []map[string]string {
	if len(set.Records) < n {
		n = len(set.Records)
	}
	return set.Records[:n]
}

type submitRequest struct {
	UserID        string              `json:"user_id"`
	Mapping       ingest.FieldMapping `json:"mapping"`
	Meta          ingest.Meta         `json:"meta"`
	NumericPolicy string              `json:"numeric_policy"`
}

// SubmitHandler applies the operator's column mapping to the parsed session,
// builds the submission payload, and forwards it to the webhook. Warnings from
// lenient numeric coercion are returned alongside the webhook response.
func SubmitHandler(store *sessionStore, pool *pgxpool.Pool, client *http.Client, webhookURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		if _, err := validation.PreValidateRequest(r.Context(), pool, req.UserID); err != nil {
			api.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}

		sess, ok := store.submission(req.UserID, req.Mapping, req.Meta)
		if !ok {
			api.RespondWithError(w, http.StatusConflict, "no uploaded file in session")
			return
		}
		if !sess.CanSubmit() {
			api.RespondWithError(w, http.StatusBadRequest, "mapping is incomplete or file has no rows")
			return
		}

		policy, err := ingest.ParseNumericPolicy(req.NumericPolicy)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		built, err := ingest.BuildPayload(sess.Set, sess.Mapping, sess.Meta, webhookURL, policy)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := ForwardPayload(r.Context(), client, webhookURL, built.Payload)
		if err != nil {
			api.RespondWithError(w, http.StatusBadGateway, err.Error())
			return
		}
		if !result.OK {
			log.Printf("[ERROR] webhook rejected faktur submission for user %s: status %d", req.UserID, result.Status)
			api.RespondWithPayload(w, false, "webhook rejected submission", map[string]interface{}{
				"status":   result.Status,
				"response": result.Raw,
			})
			return
		}

		log.Printf("[AUDIT] user %s submitted %s (%d items)", req.UserID, sess.FileName, len(built.Payload.Items))
		resp := map[string]interface{}{
			"status":    result.Status,
			"row_count": built.Payload.RowCount,
		}
		if len(built.Warnings) > 0 {
			resp["warnings"] = built.Warnings
		}
		if len(result.Data) > 0 {
			resp["response"] = result.Data
		}
		api.RespondWithPayload(w, true, "", resp)
	}
}

// DropSessionHandler discards the operator's parsed upload, if any.
func DropSessionHandler(store *sessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validation.ExtractUserID(r)
		if err != nil {
			userID = strings.TrimSpace(r.URL.Query().Get("user_id"))
		}
		if userID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		store.drop(userID)
		api.RespondWithResult(w, true, "session cleared")
	}
}
