package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportStudentsProducesWorkbook(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/students/export?session_id=%d", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two students
	assert.Equal(t, "Admission No", rows[0][0])
	assert.Equal(t, "ADM-001", rows[1][0])
	assert.Equal(t, "Asha Verma", rows[1][1])
	assert.Equal(t, "Class 10", rows[1][5])
}

func TestExportCollectionsIncludesTotalRow(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)
	collectPayment(t, r, token, fx, 700)
	collectPayment(t, r, token, fx, 300)

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/reports/collections.xlsx?session_id=%d", fx.Session.ID), token, nil)
	requireStatus(t, w, http.StatusOK)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Collections")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + two payments + total
	assert.Equal(t, "Total", rows[3][3])
	assert.Equal(t, "1000", rows[3][4])
}

func TestListFeeTransactionsFiltersByStudent(t *testing.T) {
	r, token := setupApp(t)
	fx := seedFeeFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/fees/assign", token, map[string]interface{}{
		"class_id":     fx.Class.ID,
		"session_id":   fx.Session.ID,
		"fee_type_ids": []uint{fx.FeeType.ID},
	})
	requireStatus(t, w, http.StatusOK)
	collectPayment(t, r, token, fx, 250)

	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/fees/transactions?student_id=%d", fx.StudentA.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Asha Verma", row["student_name"])
	assert.Equal(t, "Tuition", row["fee_type_name"])
	assert.Equal(t, 250.0, row["amount_paid"])
	assert.Equal(t, "Super Admin", row["collected_by"])

	// nobody else paid anything
	w = doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/fees/transactions?student_id=%d", fx.StudentB.ID), token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 0)
}
