package sales

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

// SalesRow is one sales_tomoro transaction.
type SalesRow struct {
	ID         int64    `json:"id"`
	Diterima   *string  `json:"diterima"`
	Keterangan *string  `json:"keterangan"`
	Jumlah     *float64 `json:"jumlah"`
	Date       *string  `json:"date"`
	Cabang     *string  `json:"cabang"`
	Channel    *string  `json:"channel"`
}

const salesColumns = `
	id,
	diterima,
	keterangan,
	jumlah,
	to_char("date", 'YYYY-MM-DD') AS date,
	cabang,
	channel
`

func scanSalesRows(rows pgx.Rows) ([]SalesRow, error) {
	defer rows.Close()
	out := []SalesRow{}
	for rows.Next() {
		var r SalesRow
		if err := rows.Scan(&r.ID, &r.Diterima, &r.Keterangan, &r.Jumlah, &r.Date, &r.Cabang, &r.Channel); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetToFix lists sales rows whose branch or channel is still NULL.
func GetToFix(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := validation.ClampLimit(r.URL.Query().Get("limit"), 100, config.MaxListLimit)

		rows, err := pool.Query(r.Context(), `
			SELECT `+salesColumns+`
			FROM public.sales_tomoro
			WHERE cabang IS NULL OR channel IS NULL
			ORDER BY "date" DESC, id DESC
			LIMIT $1
		`, limit)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load sales rows needing review")
			return
		}
		out, err := scanSalesRows(rows)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// Search matches every whitespace-split term against keterangan.
func Search(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := validation.ClampLimit(r.URL.Query().Get("limit"), 50, config.MaxListLimit)

		if q == "" {
			api.RespondWithPayload(w, true, "", []SalesRow{})
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
			SELECT ` + salesColumns + `
			FROM public.sales_tomoro
			WHERE ` + strings.Join(conds, " AND ") + `
			ORDER BY "date" DESC, id DESC
			LIMIT $` + strconv.Itoa(len(args))

		rows, err := pool.Query(r.Context(), sql, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to search sales_tomoro")
			return
		}
		out, err := scanSalesRows(rows)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// Summary calls fn_sales_tomoro_summary for a date range and passes the
// jsonb result through. The aggregation lives in the database.
func Summary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := validation.OnlyDate(r.URL.Query().Get("start"))
		end := validation.OnlyDate(r.URL.Query().Get("end"))
		if start == "" || end == "" {
			api.RespondWithError(w, http.StatusBadRequest, "start/end parameters are required")
			return
		}
		if !validation.IsYYYYMMDD(start) || !validation.IsYYYYMMDD(end) {
			api.RespondWithError(w, http.StatusBadRequest, "start/end must be YYYY-MM-DD")
			return
		}

		var data []byte
		err := pool.QueryRow(r.Context(),
			`SELECT public.fn_sales_tomoro_summary($1::date, $2::date)`, start, end,
		).Scan(&data)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load sales summary")
			return
		}
		if len(data) == 0 {
			api.RespondWithJSON(w, http.StatusOK, []byte(`{"success":true,"rows":null}`))
			return
		}
		api.RespondWithJSON(w, http.StatusOK, data)
	}
}

// DateRange reports the min and max transaction dates present.
func DateRange(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var startDate, endDate *string
		err := pool.QueryRow(r.Context(), `
			SELECT
				to_char(MIN("transaction_date")::date, 'YYYY-MM-DD'),
				to_char(MAX("transaction_date")::date, 'YYYY-MM-DD')
			FROM public.sales_tomoro
		`).Scan(&startDate, &endDate)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to load sales date range")
			return
		}
		api.RespondWithPayload(w, true, "", map[string]*string{
			"start_date": startDate,
			"end_date":   endDate,
		})
	}
}

type updateRequest struct {
	UserID  string  `json:"user_id"`
	Cabang  *string `json:"cabang"`
	Channel *string `json:"channel"`
}

// Update fixes the branch/channel of one sales row.
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

		var row SalesRow
		err = pool.QueryRow(r.Context(), `
			UPDATE public.sales_tomoro
			SET cabang = $1, channel = $2
			WHERE id = $3
			RETURNING `+salesColumns,
			validation.TrimToNil(req.Cabang),
			validation.TrimToNil(req.Channel),
			id,
		).Scan(&row.ID, &row.Diterima, &row.Keterangan, &row.Jumlah, &row.Date, &row.Cabang, &row.Channel)
		if err == pgx.ErrNoRows {
			api.RespondWithError(w, http.StatusNotFound, "Row not found")
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to update sales_tomoro row")
			return
		}
		api.RespondWithPayload(w, true, "", row)
	}
}
