package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/fees"
)

func SetClassFeeHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount *int `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Amount == nil {
			http.Error(w, "amount required", 400)
			return
		}
		grade, err := d.Fees.SetClassFee(chi.URLParam(r, "class"), *req.Amount)
		if err != nil {
			writeErr(w, err)
			return
		}
		out := map[string]any{"grade": grade, "fee": *req.Amount}
		record(r, d, audit.TypeClassFeeSet, grade, out)
		writeJSON(w, http.StatusOK, out)
	}
}

func ClassFeeReportHandler(book *fees.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := book.ClassReport(r.Context(), chi.URLParam(r, "class"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func RecordPaymentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID string `json:"student_id"`
			Amount    int    `json:"amount"`
			Method    string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		p, err := d.Fees.RecordPayment(r.Context(), req.StudentID, req.Amount, req.Method)
		if err != nil {
			writeErr(w, err)
			return
		}
		record(r, d, audit.TypePaymentRecorded, p.StudentID, p)
		writeJSON(w, http.StatusCreated, p)
	}
}

func FeeStatementHandler(book *fees.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := book.Statement(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func PaymentHistoryHandler(book *fees.Book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := book.History(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
