package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"rentpay/app/models/payment"
	"rentpay/pkg/gapi"
)

var manila = time.FixedZone("PHT", 8*60*60)

// fakeSheets 模拟 Sheets API，记录追加的行
type fakeSheets struct {
	mu         sync.Mutex
	rows       [][]interface{}
	appendCode int
	appendRaw  string // 非空时以 200 返回该响应体
	lastQuery  map[string]string
	lastAuth   string
	lastPath   string
}

func (f *fakeSheets) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.lastAuth = r.Header.Get("Authorization")
		f.lastPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			f.lastQuery = map[string]string{
				"valueInputOption": r.URL.Query().Get("valueInputOption"),
				"insertDataOption": r.URL.Query().Get("insertDataOption"),
			}
			if f.appendCode != 0 {
				w.WriteHeader(f.appendCode)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
				return
			}
			var body valueRange
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ROWS", body.MajorDimension)
			f.rows = append(f.rows, body.Values...)
			if f.appendRaw != "" {
				_, _ = io.WriteString(w, f.appendRaw)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"spreadsheetId": "sheet-1",
				"updates": map[string]interface{}{
					"updatedRange": "Tracker!A2:H2",
					"updatedRows":  len(body.Values),
					"updatedCells": len(body.Values) * 8,
				},
			})
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			values := make([][]interface{}, 0, len(f.rows))
			values = append(values, f.rows...)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"range": "Tracker!A1:H10", "values": values})
		case r.Method == http.MethodGet:
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestClient(t *testing.T, fake *fakeSheets, ts oauth2.TokenSource) *Client {
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		SpreadsheetID: "sheet-1",
		Worksheet:     "Tracker",
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
		TokenSource:   ts,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_AppendRow(t *testing.T) {
	fake := &fakeSheets{}
	client := newTestClient(t, fake, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-123"}))

	res, err := client.AppendRow(context.Background(), []interface{}{"Jane Doe", "5000", "cash", "2026-10-05 14:30:00", ""})

	require.NoError(t, err)
	assert.Equal(t, 1, res.UpdatedRows)
	assert.Equal(t, "Bearer tok-123", fake.lastAuth)
	assert.Equal(t, "/v4/spreadsheets/sheet-1/values/'Tracker':append", fake.lastPath)
	assert.Equal(t, "USER_ENTERED", fake.lastQuery["valueInputOption"])
	assert.Equal(t, "INSERT_ROWS", fake.lastQuery["insertDataOption"])
	require.Len(t, fake.rows, 1)
	assert.Equal(t, []interface{}{"Jane Doe", "5000", "cash", "2026-10-05 14:30:00", ""}, fake.rows[0])
}

func TestClient_AppendRowRejected(t *testing.T) {
	fake := &fakeSheets{appendCode: http.StatusForbidden}
	client := newTestClient(t, fake, nil)

	_, err := client.AppendRow(context.Background(), []interface{}{"x"})

	require.Error(t, err)
	var apiErr *gapi.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", apiErr.Status)
	assert.Empty(t, fake.rows)
	assert.Empty(t, fake.lastAuth)
}

func TestClient_AppendRowAcceptedWithOddResponse(t *testing.T) {
	for _, raw := range []string{`not json`, `{"updates":{"updatedRows":0}}`} {
		fake := &fakeSheets{appendRaw: raw}
		client := newTestClient(t, fake, nil)

		_, err := client.AppendRow(context.Background(), []interface{}{"Jane Doe"})

		assert.NoError(t, err, raw)
		assert.Len(t, fake.rows, 1, raw)
	}
}

func TestLedger_AppendSendsFormulaAsText(t *testing.T) {
	fake := &fakeSheets{}
	ledger := NewLedger(newTestClient(t, fake, nil), manila)

	err := ledger.Append(context.Background(), &payment.Payment{
		Tenant:    `=HYPERLINK("http://evil.example","Jane")`,
		Amount:    decimal.NewFromInt(5000),
		Method:    payment.MethodCash,
		Timestamp: time.Date(2026, 10, 5, 14, 30, 0, 0, manila),
		Notes:     "-see receipt",
	})

	require.NoError(t, err)
	require.Len(t, fake.rows, 1)
	assert.Equal(t, `'=HYPERLINK("http://evil.example","Jane")`, fake.rows[0][0])
	assert.Equal(t, "'-see receipt", fake.rows[0][7])
}

func TestLedger_AppendAndList(t *testing.T) {
	fake := &fakeSheets{}
	ledger := NewLedger(newTestClient(t, fake, nil), manila)
	ctx := context.Background()

	require.NoError(t, ledger.EnsureHeader(ctx))
	require.NoError(t, ledger.EnsureHeader(ctx)) // 表头已存在时不重复写入

	p := &payment.Payment{
		Tenant:    "Jane Doe",
		Amount:    decimal.NewFromInt(5000),
		Method:    payment.MethodCash,
		Timestamp: time.Date(2026, 10, 5, 14, 30, 0, 0, manila),
		Unit:      "2A",
		PaidOn:    "2026-10-05",
	}
	require.NoError(t, ledger.Append(ctx, p))

	require.Len(t, fake.rows, 2)
	assert.Equal(t, "Full Name", fake.rows[0][0])

	payments, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Jane Doe", payments[0].Tenant)
	assert.True(t, decimal.NewFromInt(5000).Equal(payments[0].Amount))
	assert.Equal(t, payment.MethodCash, payments[0].Method)
	assert.Equal(t, "2A", payments[0].Unit)
	assert.Equal(t, "", payments[0].ProofRef)
}

func TestLedger_Ping(t *testing.T) {
	ledger := NewLedger(newTestClient(t, &fakeSheets{}, nil), manila)
	assert.NoError(t, ledger.Ping(context.Background()))
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Tracker'", sheetRange("Tracker"))
	assert.Equal(t, "'Jane''s Sheet'", sheetRange("Jane's Sheet"))
}
