package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
)

func TestLedgerMetrics_Contadores(t *testing.T) {
	m := metrics.NewLedgerMetrics("inventario")

	m.TransactionCreated("OUT", "PENDING", 3)
	m.TransactionCreated("OUT", "PENDING", 1)
	m.TransactionDecided("APPROVED")
	m.StockRejected("approve")

	n, err := testutil.GatherAndCount(m.Registry(), "inventario_transactions_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una serie por combinación de etiquetas")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventario_transactions_created_total{status="PENDING",type="OUT"} 2`)
	assert.Contains(t, string(body), `inventario_transaction_lines_total{type="OUT"} 4`)
	assert.Contains(t, string(body), `inventario_insufficient_stock_total{operation="approve"} 1`)
}
