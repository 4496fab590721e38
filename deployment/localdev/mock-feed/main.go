package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type occurrence struct {
	ID              string `json:"id"`
	Agency          string `json:"agency"`
	Segment         string `json:"segment"`
	Equipment       string `json:"equipment"`
	Vendor          string `json:"vendor"`
	Carrier         string `json:"transportadora"`
	Status          string `json:"status"`
	Severity        string `json:"severity"`
	EquipmentState  string `json:"statusEquipamento"`
	CreatedAt       string `json:"createdAt"`
	ForecastClosure string `json:"dataPrevisaoEncerramento"`
	Description     string `json:"description"`
	ReasonCode      string `json:"motivoOcorrencia"`
	BlockerReason   string `json:"motivoImpedimento"`
	HasImpediment   bool   `json:"possuiImpedimento"`
	Region          string `json:"estado"`
	AgencyType      string `json:"tipoAgencia"`
	SerialNumber    string `json:"serialNumber"`
}

func sampleOccurrences(now time.Time) []occurrence {
	stamp := func(age time.Duration) string {
		return now.Add(-age).Format(time.RFC3339)
	}
	return []occurrence{
		{
			ID: "OC-1001", Agency: "0005 Centro", Segment: "AA", Equipment: "ATM",
			Vendor: "NCR", Carrier: "TransValores", Status: "in_progress", Severity: "critical",
			EquipmentState: "inoperative", CreatedAt: stamp(30 * time.Hour),
			ForecastClosure: now.Add(6 * time.Hour).Format(time.RFC3339),
			Description:     "dispenser jam", ReasonCode: "hardware_failure",
			Region: "SP", AgencyType: "branch", SerialNumber: "NCR-44821",
		},
		{
			ID: "OC-1002", Agency: "0005 Centro", Segment: "AA", Equipment: "ATM",
			Vendor: "NCR", Carrier: "TransValores", Status: "to_start", Severity: "high",
			EquipmentState: "inoperative", CreatedAt: stamp(5 * time.Hour),
			Description: "dispenser jam", ReasonCode: "hardware_failure",
			Region: "SP", AgencyType: "branch", SerialNumber: "NCR-44822",
		},
		{
			ID: "OC-1003", Agency: "1234 Paulista", Segment: "AB", Equipment: "Cash Recycler",
			Vendor: "Diebold", Status: "blocked", Severity: "medium",
			EquipmentState: "operational", CreatedAt: stamp(80 * time.Hour),
			Description: "software update pending", ReasonCode: "software_update",
			BlockerReason: "awaiting_vendor", HasImpediment: true,
			Region: "SP", AgencyType: "branch", SerialNumber: "DB-99120",
		},
		{
			ID: "OC-1004", Agency: "4410 Savassi", Segment: "AA", Equipment: "ATM",
			Vendor: "Diebold", Carrier: "Protege", Status: "closed", Severity: "low",
			EquipmentState: "operational", CreatedAt: stamp(10 * 24 * time.Hour),
			ForecastClosure: stamp(9 * 24 * time.Hour),
			Description:     "card reader cleaned", ReasonCode: "preventive",
			Region: "MG", AgencyType: "service_point", SerialNumber: "DB-77210",
		},
		{
			ID: "OC-1005", Agency: "4410 Savassi", Segment: "AA", Equipment: "ATM",
			Vendor: "Diebold", Carrier: "Protege", Status: "in_progress", Severity: "high",
			EquipmentState: "inoperative", CreatedAt: "31/02/2026 09:00:00",
			Description: "no power", ReasonCode: "",
			Region: "MG", AgencyType: "service_point", SerialNumber: "DB-77211",
		},
	}
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/occurrences", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, map[string]any{"occurrences": sampleOccurrences(time.Now())})
	})

	logger := log.New(log.Writer(), "feed-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":9090",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :9090")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
