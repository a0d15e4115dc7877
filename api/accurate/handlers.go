package accurate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"BridgingTomoro/api"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func respondUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		api.RespondWithPayload(w, false, "accurate rejected request", map[string]interface{}{
			"status":   apiErr.Status,
			"response": apiErr.Body,
		})
		return
	}
	if errors.Is(err, ErrOffline) {
		api.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	api.RespondWithError(w, http.StatusBadGateway, err.Error())
}

// DBListHandler proxies the account-host database list.
func DBListHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := client.DBList(r.Context())
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		api.RespondWithPayload(w, true, "", result.Data)
	}
}

// OpenDBHandler opens one database by id and returns its session.
func OpenDBHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			api.RespondWithError(w, http.StatusBadRequest, "id is required")
			return
		}
		result, err := client.OpenDB(r.Context(), id)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		api.RespondWithPayload(w, true, "", result)
	}
}

// BarangRow is one mirrored item. NamaUtama is the first alias when the
// jsonb nama column holds an array, or the scalar value otherwise.
type BarangRow struct {
	ID         string `json:"id"`
	KodeBarang *int64 `json:"kode_barang"`
	NamaUtama  string `json:"nama_utama"`
}

// GetBarang lists the mirrored item master ordered by item code.
func GetBarang(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pool.Query(r.Context(), `
            SELECT
                id,
                kode_barang,
                CASE
                    WHEN nama IS NULL THEN ''
                    WHEN jsonb_typeof(nama) = 'array' THEN COALESCE(nama->>0, '')
                    ELSE COALESCE(nama #>> '{}', '')
                END AS nama_utama
            FROM accurate_barang
            ORDER BY kode_barang NULLS LAST
            LIMIT 2000`)
		if err != nil {
			api.LogError("GetBarang query failed: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, "failed to fetch barang")
			return
		}
		defer rows.Close()

		out := []BarangRow{}
		for rows.Next() {
			var row BarangRow
			if err := rows.Scan(&row.ID, &row.KodeBarang, &row.NamaUtama); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "failed to scan barang row")
				return
			}
			out = append(out, row)
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// YatimRow is an item name seen in uploads that has no Accurate match yet.
type YatimRow struct {
	ID   string `json:"id"`
	Nama string `json:"nama"`
}

// GetBarangYatim lists unmatched item names alphabetically.
func GetBarangYatim(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pool.Query(r.Context(),
			`SELECT id, nama FROM accurate_barang_yatim ORDER BY nama ASC`)
		if err != nil {
			api.LogError("GetBarangYatim query failed: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, "failed to fetch barang yatim")
			return
		}
		defer rows.Close()

		out := []YatimRow{}
		for rows.Next() {
			var row YatimRow
			if err := rows.Scan(&row.ID, &row.Nama); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "failed to scan yatim row")
				return
			}
			out = append(out, row)
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

type resolveYatimRequest struct {
	YatimID    string `json:"yatimId"`
	Mode       string `json:"mode"`
	AccurateID string `json:"accurateId"`
	KodeBarang *int64 `json:"kodeBarang"`
}

// ResolveYatim attaches an orphan item name to an existing accurate_barang
// record (mode "match") or creates a new record for it (mode "new"), then
// removes it from the orphan table. The whole thing is one transaction.
func ResolveYatim(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveYatimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.YatimID == "" || (req.Mode != "match" && req.Mode != "new") {
			api.RespondWithError(w, http.StatusBadRequest, "yatimId and mode (match|new) are required")
			return
		}
		if req.Mode == "match" && req.AccurateID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "accurateId is required for mode match")
			return
		}
		if req.Mode == "new" && req.KodeBarang == nil {
			api.RespondWithError(w, http.StatusBadRequest, "kodeBarang is required for mode new")
			return
		}

		err := resolveYatimTx(r.Context(), pool, req)
		if errors.Is(err, pgx.ErrNoRows) {
			api.RespondWithError(w, http.StatusNotFound, "yatim record not found")
			return
		}
		if err != nil {
			api.LogError("ResolveYatim failed: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, api.PqUserFriendlyMessage(err))
			return
		}
		api.RespondWithResult(w, true, "yatim resolved")
	}
}

func resolveYatimTx(ctx context.Context, pool *pgxpool.Pool, req resolveYatimRequest) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var nama string
	err = tx.QueryRow(ctx,
		`SELECT nama FROM accurate_barang_yatim WHERE id = $1`, req.YatimID).Scan(&nama)
	if err != nil {
		return err
	}

	if req.Mode == "match" {
		// append the orphan name to the jsonb alias array, deduplicated
		_, err = tx.Exec(ctx, `
            UPDATE accurate_barang
            SET nama =
                CASE
                    WHEN nama IS NULL THEN jsonb_build_array($1::text)
                    WHEN jsonb_typeof(nama) = 'array' THEN
                        CASE
                            WHEN (nama ? $1) THEN nama
                            ELSE nama || jsonb_build_array($1::text)
                        END
                    ELSE
                        CASE
                            WHEN COALESCE(nama #>> '{}','') = $1 THEN jsonb_build_array($1::text)
                            ELSE jsonb_build_array(COALESCE(nama #>> '{}',''), $1::text)
                        END
                END
            WHERE id = $2`, nama, req.AccurateID)
	} else {
		// deterministic id from name+code so repeats do not duplicate
		_, err = tx.Exec(ctx, `
            INSERT INTO accurate_barang (id, kode_barang, nama)
            VALUES (
                md5(lower(trim($1)) || ':' || $2::text),
                $2::bigint,
                jsonb_build_array($1::text)
            )
            ON CONFLICT (id) DO UPDATE
            SET kode_barang = EXCLUDED.kode_barang`, nama, *req.KodeBarang)
	}
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx,
		`DELETE FROM accurate_barang_yatim WHERE id = $1`, req.YatimID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type invoiceItemRequest struct {
	ItemNo          string      `json:"itemNo"`
	Qty             json.Number `json:"qty"`
	UnitPrice       json.Number `json:"unitPrice"`
	DiscountPercent json.Number `json:"discountPercent"`
	DiscountAmount  json.Number `json:"discountAmount"`
}

type salesInvoiceRequest struct {
	CustomerNo             string               `json:"customerNo"`
	TransDate              string               `json:"transDate"`
	Number                 string               `json:"number"`
	Description            string               `json:"description"`
	Items                  []invoiceItemRequest `json:"items"`
	InvoiceDiscountPercent json.Number          `json:"invoiceDiscountPercent"`
	InvoiceDiscountAmount  json.Number          `json:"invoiceDiscountAmount"`
}

func parseDiscount(percent, amount json.Number, what string) (DiscountSpec, error) {
	if percent != "" {
		v, err := decimal.NewFromString(percent.String())
		if err != nil {
			return DiscountSpec{}, fmt.Errorf("%s discount percent is not a number", what)
		}
		return PercentDiscount(v), nil
	}
	if amount != "" {
		v, err := decimal.NewFromString(amount.String())
		if err != nil {
			return DiscountSpec{}, fmt.Errorf("%s discount amount is not a number", what)
		}
		return AmountDiscount(v), nil
	}
	return DiscountSpec{}, nil
}

// SaveSalesInvoiceHandler validates the posted invoice and forwards it to
// the Accurate data host. Percent discounts win over amounts when a line
// carries both, matching how the form is built.
func SaveSalesInvoiceHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var req salesInvoiceRequest
		if err := dec.Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		inv := SalesInvoice{
			CustomerNo:  strings.TrimSpace(req.CustomerNo),
			TransDate:   strings.TrimSpace(req.TransDate),
			Number:      strings.TrimSpace(req.Number),
			Description: strings.TrimSpace(req.Description),
		}
		headerDisc, err := parseDiscount(req.InvoiceDiscountPercent, req.InvoiceDiscountAmount, "invoice")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		inv.Discount = headerDisc

		for i, it := range req.Items {
			qty, err := decimal.NewFromString(it.Qty.String())
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("items[%d].qty is not a number", i))
				return
			}
			price, err := decimal.NewFromString(it.UnitPrice.String())
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("items[%d].unitPrice is not a number", i))
				return
			}
			disc, err := parseDiscount(it.DiscountPercent, it.DiscountAmount, fmt.Sprintf("items[%d]", i))
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			inv.Items = append(inv.Items, InvoiceItem{
				ItemNo:    strings.TrimSpace(it.ItemNo),
				Quantity:  qty,
				UnitPrice: price,
				Discount:  disc,
			})
		}

		if err := inv.Validate(); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := client.SaveSalesInvoice(r.Context(), inv)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		api.RespondWithPayload(w, true, "", data)
	}
}
