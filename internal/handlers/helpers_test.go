package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"school-erp/config"
	"school-erp/internal/routes"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupApp boots the full router against a fresh in-memory database and
// returns it along with a bearer token for the seeded superadmin.
func setupApp(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// every pooled connection gets its own in-memory database, so pin to one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("test-secret")

	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.Seed(db))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "superadmin@school-erp.local").First(&admin).Error)

	r := gin.New()
	routes.SetupRoutes(r)
	return r, tokenFor(t, admin.ID)
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JwtKey)
	require.NoError(t, err)
	return signed
}

// doJSON performs a JSON request against the router.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals the response envelope.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// feeFixture is the standard scenario used across fee tests: an active
// session with one class, one section, two students and a priced fee type.
type feeFixture struct {
	Session  models.Session
	Class    models.ClassRoom
	Section  models.Section
	StudentA models.Student
	StudentB models.Student
	FeeGroup models.FeeGroup
	FeeType  models.FeeType
	Master   models.FeeMaster
}

func seedFeeFixture(t *testing.T) feeFixture {
	t.Helper()
	db := config.DB

	session := models.Session{
		Name:      "2025-2026",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    models.SessionActive,
	}
	require.NoError(t, db.Create(&session).Error)

	class := models.ClassRoom{Name: "Class 10", NumericValue: 10, SessionID: session.ID}
	require.NoError(t, db.Create(&class).Error)

	section := models.Section{Name: "A", ClassID: class.ID, Capacity: 40}
	require.NoError(t, db.Create(&section).Error)

	studentA := models.Student{
		AdmissionNo: "ADM-001", Name: "Asha Verma", Email: "asha@example.com",
		ClassID: class.ID, SectionID: section.ID, SessionID: session.ID,
	}
	require.NoError(t, db.Create(&studentA).Error)
	studentB := models.Student{
		AdmissionNo: "ADM-002", Name: "Rohan Gupta", Email: "rohan@example.com",
		ClassID: class.ID, SectionID: section.ID, SessionID: session.ID,
	}
	require.NoError(t, db.Create(&studentB).Error)

	group := models.FeeGroup{Name: "Tuition & Academic Fees", SessionID: session.ID}
	require.NoError(t, db.Create(&group).Error)

	feeType := models.FeeType{
		Name: "Tuition", FeeGroupID: group.ID, SessionID: session.ID,
		Amount: 2000, Frequency: models.FrequencyYearly,
	}
	require.NoError(t, db.Create(&feeType).Error)

	master := models.FeeMaster{
		FeeGroupID: group.ID, FeeTypeID: feeType.ID,
		ClassID: class.ID, SessionID: session.ID, Amount: 2000,
	}
	require.NoError(t, db.Create(&master).Error)

	return feeFixture{
		Session: session, Class: class, Section: section,
		StudentA: studentA, StudentB: studentB,
		FeeGroup: group, FeeType: feeType, Master: master,
	}
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
