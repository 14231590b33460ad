package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoe-report/dashboard"
	"shoe-report/export"
	"shoe-report/models"
	"shoe-report/services"
	"shoe-report/storage"
	"shoe-report/utils"
)

const listingsCSV = "category,current_price,original_price,weight_value,brand,name\n" +
	"unisex,4299,4990,245,La Sportiva,Solution\n" +
	"dámské,3999,4990,230,La Sportiva,Miura VS\n" +
	",1299,1499,,Ocun,Striker QC\n"

type failingSource struct{}

func (failingSource) Load(context.Context) (*models.Table, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) Close() error { return nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, source storage.TableSource) *Server {
	t.Helper()
	logger := utils.NewLogger()
	logger.SetOutput(io.Discard)

	renderer, err := dashboard.NewRenderer("Kč")
	require.NoError(t, err)
	return New(source, services.NewReportService(logger), renderer, "Kč", logger)
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPageReloadsSourceOnEveryRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, listingsCSV)
	s := newTestServer(t, storage.NewCSVSource(path))

	w := get(s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Number of products: 3")

	writeCSV(t, path, listingsCSV+"unisex,3590,3990,250,Scarpa,Vapor V\n")
	w = get(s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Number of products: 4")
}

func TestPageLoadFailure(t *testing.T) {
	s := newTestServer(t, failingSource{})

	w := get(s, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestPageMissingRequiredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, "brand,name,current_price\nOcun,Oxi,2799\n")
	s := newTestServer(t, storage.NewCSVSource(path))

	w := get(s, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "original_price")
}

func TestChartEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, listingsCSV)
	s := newTestServer(t, storage.NewCSVSource(path))

	w := get(s, "/charts/price-weight.svg")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")

	w = get(s, "/charts/histogram")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, listingsCSV)
	s := newTestServer(t, storage.NewCSVSource(path))

	w := get(s, "/export.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(export.SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, failingSource{})
	assert.Equal(t, http.StatusNoContent, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)
}
