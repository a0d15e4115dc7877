package bukubank

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"BridgingTomoro/api"
	"BridgingTomoro/internal/config"
	"BridgingTomoro/internal/validation"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BukuBankRow is one bank ledger transaction line.
type BukuBankRow struct {
	ID              int64    `json:"id"`
	Date            *string  `json:"date"`
	BankRecord      *string  `json:"bank_record"`
	Cabang          *string  `json:"cabang"`
	DiterimaDibayar *string  `json:"diterima_dibayar"`
	CrDb            *string  `json:"cr_db"`
	Keterangan      *string  `json:"keterangan"`
	Nominal         *float64 `json:"nominal"`
	Saldo           *float64 `json:"saldo"`
}

const bukuBankColumns = `
	id,
	to_char("date", 'YYYY-MM-DD') AS date,
	bank_record,
	cabang,
	diterima_dibayar,
	cr_db,
	keterangan,
	nominal,
	saldo
`

func scanBukuBankRows(rows pgx.Rows) ([]BukuBankRow, error) {
	defer rows.Close()
	out := []BukuBankRow{}
	for rows.Next() {
		var r BukuBankRow
		if err := rows.Scan(
			&r.ID, &r.Date, &r.BankRecord, &r.Cabang, &r.DiterimaDibayar,
			&r.CrDb, &r.Keterangan, &r.Nominal, &r.Saldo,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetToFix lists ledger rows that still need manual correction: missing or
// unknown branch/receiver fields, or a branch outside the known set.
func GetToFix(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := validation.ClampLimit(r.URL.Query().Get("limit"), config.DefaultToFixLimit, config.MaxListLimit)

		rows, err := pool.Query(r.Context(), `
			SELECT `+bukuBankColumns+`
			FROM public.buku_bank
			WHERE
				cabang IS NULL
				OR diterima_dibayar IS NULL
				OR diterima_dibayar = 'unknown'
				OR (cabang IS NOT NULL AND cabang NOT IN ('BEI','LOTTE'))
			ORDER BY "date" ASC, id ASC
			LIMIT $1
		`, limit)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load buku bank rows needing review")
			return
		}
		out, err := scanBukuBankRows(rows)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// Search matches every whitespace-split term against keterangan (AND of
// ILIKEs). An empty query returns an empty list rather than the whole table.
func Search(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := validation.ClampLimit(r.URL.Query().Get("limit"), config.DefaultSearchLimit, config.MaxListLimit)

		if q == "" {
			api.RespondWithPayload(w, true, "", []BukuBankRow{})
			return
		}

		terms := validation.SplitSearchTerms(q)
		conds := make([]string, len(terms))
		args := make([]interface{}, 0, len(terms)+1)
		for i, t := range terms {
			conds[i] = fmt.Sprintf("keterangan ILIKE $%d", i+1)
			args = append(args, "%"+t+"%")
		}
		args = append(args, limit)

		sql := `
			SELECT ` + bukuBankColumns + `
			FROM public.buku_bank
			WHERE ` + strings.Join(conds, " AND ") + `
			ORDER BY "date" ASC, id ASC
			LIMIT $` + strconv.Itoa(len(args))

		rows, err := pool.Query(r.Context(), sql, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to search buku bank")
			return
		}
		out, err := scanBukuBankRows(rows)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// MonthSummary calls the database aggregation function for one month and
// passes its jsonb result through untouched. The function is an external
// black box owned by the database.
func MonthSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, errY := strconv.Atoi(r.URL.Query().Get("year"))
		month, errM := strconv.Atoi(r.URL.Query().Get("month"))
		if errY != nil || errM != nil || month < 1 || month > 12 {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid year/month parameters")
			return
		}

		var data []byte
		err := pool.QueryRow(r.Context(),
			`SELECT public.fn_buku_bank_ringkasan_bulanan($1, $2)`, year, month,
		).Scan(&data)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load buku bank month summary")
			return
		}
		if len(data) == 0 {
			api.RespondWithError(w, http.StatusNotFound, "Summary not found")
			return
		}
		api.RespondWithJSON(w, http.StatusOK, data)
	}
}

type updateRequest struct {
	UserID          string  `json:"user_id"`
	Cabang          *string `json:"cabang"`
	DiterimaDibayar *string `json:"diterima_dibayar"`
	Keterangan      *string `json:"keterangan"`
}

// Update fixes the editable fields of one ledger row. Blank strings map to
// NULL so a cleared field really clears.
func Update(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if _, err := validation.PreValidateRequest(r.Context(), pool, req.UserID); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var row BukuBankRow
		err = pool.QueryRow(r.Context(), `
			UPDATE public.buku_bank
			SET cabang = $1, diterima_dibayar = $2, keterangan = $3
			WHERE id = $4
			RETURNING `+bukuBankColumns,
			validation.TrimToNil(req.Cabang),
			validation.TrimToNil(req.DiterimaDibayar),
			validation.TrimToNil(req.Keterangan),
			id,
		).Scan(
			&row.ID, &row.Date, &row.BankRecord, &row.Cabang, &row.DiterimaDibayar,
			&row.CrDb, &row.Keterangan, &row.Nominal, &row.Saldo,
		)
		if err == pgx.ErrNoRows {
			api.RespondWithError(w, http.StatusNotFound, "Row not found")
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to update buku bank row")
			return
		}
		api.RespondWithPayload(w, true, "", row)
	}
}
