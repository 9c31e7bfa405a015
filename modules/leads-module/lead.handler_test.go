package leads_module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/commons/enums"
	"solarhub/database/entities"
)

func newRouter(t *testing.T, files map[string][]byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc, db, _ := newFileService(t, files)
	r := gin.New()
	NewHandler(NewLeadService(db), svc).RegisterRoutes(r.Group("/api"), r.Group("/api/admin"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Capture(t *testing.T) {
	r := newRouter(t, nil)

	w := do(r, http.MethodPost, "/api/leads", `{"name":"Sam","phone":"0411 111 111","postcode":"6000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var lead entities.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lead))
	assert.Equal(t, "0411111111", lead.Phone)

	for _, body := range []string{`{"name":"Sam"}`, `{"phone":"0411","email":"nope"}`, `{"phone":"0411","postcode":"600"}`} {
		w := do(r, http.MethodPost, "/api/leads", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = do(r, http.MethodGet, "/api/admin/leads?status="+enums.LEAD_NEW, "")
	require.Equal(t, http.StatusOK, w.Code)
	var leads []entities.Lead
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	assert.Len(t, leads, 1)
}

func TestHandler_LeadFiles(t *testing.T) {
	r := newRouter(t, map[string][]byte{"leads.csv": []byte(leadsCsv)})

	w := do(r, http.MethodPost, "/api/admin/lead-files", `{"fileName":"leads.xlsx"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"File name must end in .csv or .csv.tar.gz"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/admin/lead-files", `{"fileName":"leads.csv"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var file entities.LeadFileHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
	id := strconv.FormatUint(uint64(file.ID), 10)

	w = do(r, http.MethodPost, "/api/admin/lead-files/"+id+"/import", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
	assert.Equal(t, enums.IMPORTED, file.Status)
	assert.Equal(t, 3, file.ImportedLeads)

	w = do(r, http.MethodPost, "/api/admin/lead-files/"+id+"/import", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/api/admin/lead-files/"+id+"/duplicates", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dups []entities.LeadPhoneDuplicateHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dups))
	assert.Len(t, dups, 1)

	w = do(r, http.MethodGet, "/api/admin/lead-files", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/admin/lead-files/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/admin/lead-files/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ImportDownloadFailure(t *testing.T) {
	r := newRouter(t, nil)

	w := do(r, http.MethodPost, "/api/admin/lead-files", `{"fileName":"missing.csv"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var file entities.LeadFileHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))

	w = do(r, http.MethodPost, "/api/admin/lead-files/"+strconv.FormatUint(uint64(file.ID), 10)+"/import", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body struct {
		Error string                   `json:"error"`
		File  entities.LeadFileHistory `json:"file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "404")
	assert.Equal(t, enums.DOWNLOAD_FAILED, body.File.Status)
}
