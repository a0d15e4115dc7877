package rekonsiliasi

import (
	"net/http"
	"strconv"

	"BridgingTomoro/api"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RekonRow is one reconciliation entry linking a bank record to its match
// status.
type RekonRow struct {
	ID         int64    `json:"id"`
	BankRecord *string  `json:"bank_record"`
	Nominal    *float64 `json:"nominal"`
	Channel    *string  `json:"channel"`
	Cabang     *string  `json:"cabang"`
	Link       *string  `json:"link"`
	Status     *string  `json:"status"`
	CreatedAt  *string  `json:"created_at"`
}

const rekonColumns = `
	id,
	bank_record,
	nominal,
	channel,
	cabang,
	link,
	status,
	to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS') AS created_at
`

// List returns every reconciliation entry, newest first.
func List(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pool.Query(r.Context(), `
			SELECT `+rekonColumns+`
			FROM public.rekonsiliasi
			ORDER BY created_at DESC, id DESC
		`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load rekonsiliasi entries")
			return
		}
		defer rows.Close()

		out := []RekonRow{}
		for rows.Next() {
			var row RekonRow
			if err := rows.Scan(
				&row.ID, &row.BankRecord, &row.Nominal, &row.Channel,
				&row.Cabang, &row.Link, &row.Status, &row.CreatedAt,
			); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			out = append(out, row)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// Detail returns one reconciliation entry by id.
func Detail(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		var row RekonRow
		err = pool.QueryRow(r.Context(), `
			SELECT `+rekonColumns+`
			FROM public.rekonsiliasi
			WHERE id = $1
			LIMIT 1
		`, id).Scan(
			&row.ID, &row.BankRecord, &row.Nominal, &row.Channel,
			&row.Cabang, &row.Link, &row.Status, &row.CreatedAt,
		)
		if err == pgx.ErrNoRows {
			api.RespondWithError(w, http.StatusNotFound, "Entry not found")
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load rekonsiliasi entry")
			return
		}
		api.RespondWithPayload(w, true, "", row)
	}
}
