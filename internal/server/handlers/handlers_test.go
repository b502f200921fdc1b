package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/service/auth"
	"github.com/mamadbah2/station/internal/service/categories"
	"github.com/mamadbah2/station/internal/service/reporting"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSales struct {
	params  map[string]string
	docs    []models.Sale
	err     error
	deleted string
}

func (f *fakeSales) Resource() models.Resource { return models.ResourceSales }

func (f *fakeSales) List(ctx context.Context, params map[string]string) ([]models.Sale, error) {
	f.params = params
	return f.docs, f.err
}

func (f *fakeSales) Create(ctx context.Context, doc models.Sale) (models.Sale, error) {
	if f.err != nil {
		return models.Sale{}, f.err
	}
	doc.RecomputeTotal()
	return doc, nil
}

func (f *fakeSales) Update(ctx context.Context, rawID string, doc models.Sale) (models.Sale, error) {
	if rawID == "missing" {
		return models.Sale{}, fmt.Errorf("sale %s: %w", rawID, models.ErrNotFound)
	}
	return doc, nil
}

func (f *fakeSales) Delete(ctx context.Context, rawID string) error {
	f.deleted = rawID
	return f.err
}

func salesEngine(svc *fakeSales) *gin.Engine {
	r := gin.New()
	NewRecordHandler[models.Sale](svc, nil).Register(r.Group("/api"))
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch v := body.(type) {
		case string:
			buf.WriteString(v)
		default:
			_ = json.NewEncoder(&buf).Encode(v)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRecordListPassesFilters(t *testing.T) {
	svc := &fakeSales{}
	w := do(salesEngine(svc), http.MethodGet, "/api/sales?product=Petrol&dateFrom=2024-03-01&_=123", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, "Petrol", svc.params["product"])
	assert.Equal(t, "2024-03-01", svc.params["dateFrom"])
}

func TestRecordListValidationError(t *testing.T) {
	svc := &fakeSales{err: fmt.Errorf("quantityMin: %w", models.ErrValidation)}
	w := do(salesEngine(svc), http.MethodGet, "/api/sales?quantityMin=abc", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "quantityMin")
}

func TestRecordCreate(t *testing.T) {
	w := do(salesEngine(&fakeSales{}), http.MethodPost, "/api/sales",
		`{"product":"Diesel","quantity":10,"price":150,"total":1,"date":"2024-03-02"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var sale models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, 1500.0, sale.Total)
	assert.Equal(t, "2024-03-02", sale.Date.Format(models.DateLayout))
}

func TestRecordCreateRejectsMalformedBody(t *testing.T) {
	w := do(salesEngine(&fakeSales{}), http.MethodPost, "/api/sales", `{"date":"02/03/2024"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordUpdateAndDelete(t *testing.T) {
	svc := &fakeSales{}
	r := salesEngine(svc)

	w := do(r, http.MethodPut, "/api/sales/missing", `{"product":"Petrol"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/sales/65f000000000000000000001", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "65f000000000000000000001", svc.deleted)
}

func TestInternalErrorsAreMasked(t *testing.T) {
	svc := &fakeSales{err: errors.New("connection reset by peer")}
	w := do(salesEngine(svc), http.MethodGet, "/api/sales", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w).Error)
}

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	svc, err := auth.NewService(auth.Credentials{Username: "admin", PasswordHash: hash, Secret: "key"})
	require.NoError(t, err)
	return svc
}

func TestLogin(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewAuthHandler(newAuthService(t), nil).Login)

	w := do(r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	var token auth.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.NotEmpty(t, token.Token)

	w = do(r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "required", decodeError(t, w).Fields["Password"])
}

func TestCategories(t *testing.T) {
	reg := categories.NewRegistry(nil, nil)
	h := NewCategoryHandler(reg, nil)
	r := gin.New()
	r.GET("/categories", h.List)
	r.POST("/categories", h.Add)

	w := do(r, http.MethodPost, "/categories", map[string]string{"name": "Generator Fuel"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/categories", map[string]string{"name": "Generator Fuel"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/categories", nil)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Contains(t, names, "Generator Fuel")
	assert.Contains(t, names, "Maintenance")
}

func TestSchemaFollowsRegistry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := categories.NewRegistry(nil, nil)
	h := NewSchemaHandler(ctx, reg, nil)
	r := gin.New()
	r.GET("/schemas/:resource", h.Get)

	_, err := reg.Add(ctx, "Security")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		w := do(r, http.MethodGet, "/schemas/expenses", nil)
		var schema models.Schema
		if json.Unmarshal(w.Body.Bytes(), &schema) != nil {
			return false
		}
		for _, f := range schema.Fields {
			if f.Name == "category" {
				return len(f.Options) > 0 && f.Options[len(f.Options)-1] == "Security"
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	w := do(r, http.MethodGet, "/schemas/pumps", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeReports struct {
	window reporting.Window
}

func (f *fakeReports) Build(ctx context.Context, w reporting.Window) (models.DashboardReport, error) {
	f.window = w
	return models.DashboardReport{
		Window:         models.ReportWindow{Range: string(w.Range)},
		GeneratedAt:    time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		SalesByProduct: []models.ProductSalesSummary{{Product: "Petrol", Quantity: 10, Revenue: 1000, Count: 1, AvgPrice: 100}},
		Stats:          models.BusinessStats{TotalSales: 1000, ProfitMargin: "100.0", InventoryTurnover: "0.00"},
	}, nil
}

func TestDashboard(t *testing.T) {
	reports := &fakeReports{}
	h := NewReportHandler(reports, time.UTC, nil)
	r := gin.New()
	r.GET("/dashboard", h.Dashboard)

	w := do(r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reporting.DefaultRange, reports.window.Range)

	w = do(r, http.MethodGet, "/dashboard?start=2024-03-01&end=2024-03-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reporting.RangeCustom, reports.window.Range)

	w = do(r, http.MethodGet, "/dashboard?range=decade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	h := NewReportHandler(&fakeReports{}, time.UTC, nil)
	r := gin.New()
	r.GET("/export.xlsx", h.Export)

	w := do(r, http.MethodGet, "/export.xlsx?range=week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "station-report-2024-03-05.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Products")
}
