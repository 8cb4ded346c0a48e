// school-erp/internal/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"time"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
)

// DashboardSummaryHandler returns a role-shaped summary for the signed-in
// user. Counts are scoped to the active session when one exists.
func DashboardSummaryHandler(c *gin.Context) {
	session, err := models.ActiveSession(config.DB)
	var sessionID uint
	if err == nil {
		sessionID = session.ID
	}

	switch {
	case hasRole(c, models.RoleSuperadmin) || hasRole(c, models.RoleAdmin):
		respondOK(c, adminSummary(sessionID))
	case hasRole(c, models.RoleAccountant):
		respondOK(c, accountantSummary(sessionID))
	case hasRole(c, models.RoleTeacher):
		respondOK(c, teacherSummary(sessionID))
	case hasRole(c, models.RoleStudent):
		respondOK(c, studentSummary(currentUserID(c), sessionID))
	default:
		respondError(c, http.StatusForbidden, "No dashboard available for this role")
	}
}

func countScoped(model interface{}, sessionID uint) int64 {
	var count int64
	q := config.DB.Model(model)
	if sessionID != 0 {
		q = q.Where("session_id = ?", sessionID)
	}
	q.Count(&count)
	return count
}

func adminSummary(sessionID uint) gin.H {
	var userCount int64
	config.DB.Model(&models.User{}).Count(&userCount)

	return gin.H{
		"role":           "admin",
		"students":       countScoped(&models.Student{}, sessionID),
		"classes":        countScoped(&models.ClassRoom{}, sessionID),
		"fee_groups":     countScoped(&models.FeeGroup{}, sessionID),
		"fee_types":      countScoped(&models.FeeType{}, sessionID),
		"users":          userCount,
		"active_session": sessionID,
		// placeholder until real health checks are wired to infrastructure
		"system_health": gin.H{"database": "ok", "cache": cacheHealth()},
	}
}

func cacheHealth() string {
	if config.RDB == nil {
		return "disabled"
	}
	if err := config.RDB.Ping(config.Ctx).Err(); err != nil {
		return "down"
	}
	return "ok"
}

func accountantSummary(sessionID uint) gin.H {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var todayCollection float64
	q := config.DB.Model(&models.FeeTransaction{}).
		Where("payment_date >= ? AND payment_date < ?", today, today.AddDate(0, 0, 1))
	if sessionID != 0 {
		q = q.Where("session_id = ?", sessionID)
	}
	q.Select("COALESCE(SUM(amount_paid), 0)").Scan(&todayCollection)

	var pendingTotal float64
	pq := config.DB.Model(&models.StudentFee{}).
		Where("status IN ?", []string{models.FeeStatusPending, models.FeeStatusPartial, models.FeeStatusOverdue})
	if sessionID != 0 {
		pq = pq.Where("session_id = ?", sessionID)
	}
	pq.Select("COALESCE(SUM(amount_due - amount_paid), 0)").Scan(&pendingTotal)

	return gin.H{
		"role":              "accountant",
		"todays_collection": todayCollection,
		"pending_total":     pendingTotal,
		"students":          countScoped(&models.Student{}, sessionID),
		"active_session":    sessionID,
	}
}

func teacherSummary(sessionID uint) gin.H {
	return gin.H{
		"role":           "teacher",
		"classes":        countScoped(&models.ClassRoom{}, sessionID),
		"students":       countScoped(&models.Student{}, sessionID),
		"active_session": sessionID,
	}
}

func studentSummary(userID, sessionID uint) gin.H {
	var student models.Student
	if err := config.DB.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return gin.H{"role": "student", "message": "No student record linked to this account"}
	}

	var totalDue, totalPaid float64
	q := config.DB.Model(&models.StudentFee{}).Where("student_id = ?", student.ID)
	if sessionID != 0 {
		q = q.Where("session_id = ?", sessionID)
	}
	q.Select("COALESCE(SUM(amount_due), 0)").Scan(&totalDue)

	q2 := config.DB.Model(&models.StudentFee{}).Where("student_id = ?", student.ID)
	if sessionID != 0 {
		q2 = q2.Where("session_id = ?", sessionID)
	}
	q2.Select("COALESCE(SUM(amount_paid), 0)").Scan(&totalPaid)

	return gin.H{
		"role":            "student",
		"student_id":      student.ID,
		"total_due":       totalDue,
		"total_paid":      totalPaid,
		"total_remaining": totalDue - totalPaid,
		"active_session":  sessionID,
	}
}
