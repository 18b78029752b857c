package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"facturio/internal/handler"
	"facturio/internal/numbering"
	"facturio/mocks"
)

func TestNumberingHandler_Get(t *testing.T) {
	counterRepo := new(mocks.MockCounterRepo)
	now := time.Now()
	key := fmt.Sprintf("FAC-%d-%d", now.Year(), int(now.Month()))
	counterRepo.On("LoadCounters", mock.Anything).Return(map[string]int{key: 7}, nil)

	cfg := numbering.Config{IncludeMonth: true}
	allocator := numbering.NewAllocator(counterRepo, cfg)
	h := handler.NewNumberingHandler(allocator, numbering.Config{
		PrefixInvoice: "FAC",
		PrefixQuote:   "DEV",
		IncludeMonth:  true,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/numbering", http.NoBody)

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "FAC", data["prefixInvoice"])
	assert.Equal(t, "DEV", data["prefixQuote"])
	expected := fmt.Sprintf("FAC-%d-%02d-007", now.Year(), int(now.Month()))
	assert.Equal(t, expected, data["lastInvoice"])
	// Reading never advances a counter.
	counterRepo.AssertNotCalled(t, "SaveCounters", mock.Anything, mock.Anything)
}
