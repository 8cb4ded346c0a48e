// school-erp/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"school-erp/config"
	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ListStudentsHandler(c *gin.Context) {
	baseQuery := config.DB.Table("students").
		Select(`
            students.id,
            students.admission_no,
            students.name,
            students.email,
            students.phone,
            students.gender,
            COALESCE(class_rooms.name, '') AS class_name,
            COALESCE(sections.name, '') AS section_name,
            students.session_id
        `).
		Joins("LEFT JOIN class_rooms ON students.class_id = class_rooms.id").
		Joins("LEFT JOIN sections ON students.section_id = sections.id").
		Where("students.deleted_at IS NULL")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(students.name) LIKE ? OR LOWER(students.admission_no) LIKE ? OR LOWER(students.email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if sessionID := queryUint(c, "session_id"); sessionID != 0 {
		baseQuery = baseQuery.Where("students.session_id = ?", sessionID)
	}
	if classID := queryUint(c, "class_id"); classID != 0 {
		baseQuery = baseQuery.Where("students.class_id = ?", classID)
	}
	if sectionID := queryUint(c, "section_id"); sectionID != 0 {
		baseQuery = baseQuery.Where("students.section_id = ?", sectionID)
	}

	var totalRows int64
	if err := baseQuery.Count(&totalRows).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not count students")
		return
	}

	var students []models.StudentListRow
	if err := baseQuery.Scopes(Paginate(c)).Order("students.name").Scan(&students).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not load students")
		return
	}
	if students == nil {
		students = make([]models.StudentListRow, 0)
	}
	respondPaginated(c, students, totalRows)
}

func GetStudentHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var student models.Student
	err := config.DB.Preload("Class").Preload("Section").Preload("Session").First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Student not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Could not load student: "+err.Error())
		return
	}
	respondOK(c, student)
}

// validateEnrollment checks that class, section and session exist and fit
// together: the section must belong to the class, the class to the session.
func validateEnrollment(db *gorm.DB, classID, sectionID, sessionID uint) error {
	var class models.ClassRoom
	if err := db.First(&class, classID).Error; err != nil {
		return errors.New("class not found")
	}
	if class.SessionID != sessionID {
		return errors.New("class does not belong to the given session")
	}
	var section models.Section
	if err := db.First(&section, sectionID).Error; err != nil {
		return errors.New("section not found")
	}
	if section.ClassID != classID {
		return errors.New("section does not belong to the given class")
	}
	return nil
}

func CreateStudentHandler(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := validateEnrollment(config.DB, input.ClassID, input.SectionID, input.SessionID); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var dup int64
	config.DB.Model(&models.Student{}).
		Where("(admission_no = ? AND session_id = ?) OR email = ?", input.AdmissionNo, input.SessionID, input.Email).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A student with this admission number or email already exists")
		return
	}

	student := models.Student{
		AdmissionNo:    input.AdmissionNo,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Gender:         input.Gender,
		Address:        input.Address,
		FatherName:     input.FatherName,
		MotherName:     input.MotherName,
		GuardianName:   input.GuardianName,
		GuardianPhone:  input.GuardianPhone,
		GuardianRelate: input.GuardianRelate,
		ClassID:        input.ClassID,
		SectionID:      input.SectionID,
		SessionID:      input.SessionID,
	}
	if input.DOB != "" {
		dob, err := parseDate(input.DOB)
		if err != nil {
			respondValidation(c, map[string]string{"dob": "must be YYYY-MM-DD"})
			return
		}
		student.DOB = &dob
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		user, err := createStudentUser(tx, input.Name, input.Email, input.AdmissionNo)
		if err != nil {
			return err
		}
		student.UserID = &user.ID
		return tx.Create(&student).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Could not create student: "+err.Error())
		return
	}
	respondCreated(c, student, "Student created")
}

// createStudentUser provisions the login account bound to a student row.
// The initial password is the admission number; the account is expected to
// change it on first login.
func createStudentUser(tx *gorm.DB, name, email, admissionNo string) (*models.User, error) {
	var role models.Role
	if err := tx.Where("name = ?", models.RoleStudent).First(&role).Error; err != nil {
		return nil, fmt.Errorf("student role missing: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admissionNo), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []models.Role{role},
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateStudentHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Student not found")
		return
	}

	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if err := validateEnrollment(config.DB, input.ClassID, input.SectionID, input.SessionID); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var dup int64
	config.DB.Model(&models.Student{}).
		Where("((admission_no = ? AND session_id = ?) OR email = ?) AND id <> ?",
			input.AdmissionNo, input.SessionID, input.Email, id).
		Count(&dup)
	if dup > 0 {
		respondError(c, http.StatusConflict, "A student with this admission number or email already exists")
		return
	}

	student.AdmissionNo = input.AdmissionNo
	student.Name = input.Name
	student.Email = input.Email
	student.Phone = input.Phone
	student.Gender = input.Gender
	student.Address = input.Address
	student.FatherName = input.FatherName
	student.MotherName = input.MotherName
	student.GuardianName = input.GuardianName
	student.GuardianPhone = input.GuardianPhone
	student.GuardianRelate = input.GuardianRelate
	student.ClassID = input.ClassID
	student.SectionID = input.SectionID
	student.SessionID = input.SessionID
	if input.DOB != "" {
		dob, err := parseDate(input.DOB)
		if err != nil {
			respondValidation(c, map[string]string{"dob": "must be YYYY-MM-DD"})
			return
		}
		student.DOB = &dob
	}

	if err := config.DB.Save(&student).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update student: "+err.Error())
		return
	}
	respondOK(c, student)
}

// DeleteStudentHandler soft-deletes a student unless fee records reference it.
func DeleteStudentHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Student not found")
		return
	}

	var feeCount int64
	config.DB.Model(&models.StudentFee{}).Where("student_id = ?", id).Count(&feeCount)
	if feeCount > 0 {
		respondError(c, http.StatusConflict, "Cannot delete student: fee records reference it")
		return
	}

	if err := config.DB.Delete(&student).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not delete student: "+err.Error())
		return
	}
	respondMessage(c, http.StatusOK, "Student deleted")
}

// UploadStudentPhotoHandler stores a student photo under a generated name.
func UploadStudentPhotoHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Student not found")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No photo file provided")
		return
	}

	uploadDir := photosBaseDir()
	if err := ensureDir(uploadDir); err != nil {
		respondError(c, http.StatusInternalServerError, "Could not prepare upload directory: "+err.Error())
		return
	}

	ext := filepath.Ext(file.Filename)
	newFileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(uploadDir, newFileName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		respondError(c, http.StatusInternalServerError, "Could not save photo: "+err.Error())
		return
	}

	student.PhotoURL = "/uploads/photos/" + newFileName
	if err := config.DB.Model(&student).Update("photo_url", student.PhotoURL).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Could not update photo: "+err.Error())
		return
	}

	slog.Info("Student photo updated", "student_id", student.ID, "file", newFileName)
	respondOK(c, gin.H{"photo_url": student.PhotoURL})
}
