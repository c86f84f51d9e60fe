package v1

import (
	"net/http"
	"strings"

	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/importer"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterStudentRoutes registers the routes for students with
// the RouterGroup that is passed.
func RegisterStudentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsStudentList)
		r.GET("", GetStudents)
		r.POST("", CreateStudents)
		r.OPTIONS("/import", OptionsStudentImport)
		r.POST("/import", ImportStudents)
	}

	// Student with ID
	{
		r.OPTIONS("/:id", OptionsStudentDetail)
		r.GET("/:id", GetStudent)
		r.PATCH("/:id", UpdateStudent)
		r.DELETE("/:id", DeleteStudent)
		r.GET("/:id/statement", GetStudentStatement)
	}
}

// setFeeConfigurations replaces the fee configurations of the student.
// All IDs must reference existing configurations.
func setFeeConfigurations(tx *gorm.DB, student *models.Student, ids []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	configurations := []models.FeeConfiguration{}
	if len(unique) > 0 {
		err := tx.Where("id IN ?", unique).Find(&configurations).Error
		if err != nil {
			return err
		}

		if len(configurations) != len(unique) {
			return models.ErrReferenceNotFound
		}
	}

	err := tx.Model(student).Omit("FeeConfigurations.*").Association("FeeConfigurations").Replace(configurations)
	if err != nil {
		return err
	}

	student.FeeConfigurations = configurations
	return nil
}

// loadFeeConfigurations loads the fee configurations of every student.
func loadFeeConfigurations(students []models.Student) error {
	for i := range students {
		err := models.DB.Model(&students[i]).Association("FeeConfigurations").Find(&students[i].FeeConfigurations)
		if err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students [options]
func OptionsStudentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [options]
func OptionsStudentDetail(c *gin.Context) {
	resourceOptionsDetail[models.Student](c)
}

// @Summary		Create students
// @Description	Creates new students and binds them to their fee configurations
// @Tags			Students
// @Accept			json
// @Produce		json
// @Success		201			{object}	StudentCreateResponse
// @Failure		400			{object}	StudentCreateResponse
// @Failure		500			{object}	StudentCreateResponse
// @Param			students	body		[]StudentEditable	true	"Students"
// @Router			/v1/students [post]
func CreateStudents(c *gin.Context) {
	var editables []StudentEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	status := http.StatusCreated
	r := StudentCreateResponse{}

	for _, editable := range editables {
		student := editable.model()

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Omit("FeeConfigurations").Create(&student).Error
			if err != nil {
				return err
			}

			return setFeeConfigurations(tx, &student, editable.FeeConfigurationIDs)
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newStudent(c, student)
		r.Data = append(r.Data, StudentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List students
// @Description	Returns a list of students, ordered by name
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentListResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Router			/v1/students [get]
// @Param			matricule			query	string	false	"Filter by matricule"
// @Param			class				query	string	false	"Filter by class"
// @Param			active				query	bool	false	"Is the student active?"
// @Param			feeConfiguration	query	string	false	"Filter by ID of a fee configuration the student is bound to"
// @Param			search				query	string	false	"Search for this text in matricule, first and last name"
// @Param			offset				query	uint	false	"The offset of the first student returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of students to return. Defaults to 50."
func GetStudents(c *gin.Context) {
	var filter StudentQueryFilter
	err := c.ShouldBind(&filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("last_name, first_name, matricule").
		Where(&filterModel, queryFields...)

	if !filter.FeeConfigurationID.IsNil() {
		bound := models.DB.
			Table("student_fee_configurations").
			Select("student_id").
			Where("fee_configuration_id = ?", filter.FeeConfigurationID.UUID)
		q = q.Where("id IN (?)", bound)
	}

	q = textFilter(q, setFields, "Matricule", "matricule", filter.Matricule)
	q = searchFilter(models.DB, q, filter.Search, "matricule", "first_name", "last_name")

	q, limit := paginate(q, setFields, filter.Offset, filter.Limit)

	var students []models.Student
	err = q.Find(&students).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	err = loadFeeConfigurations(students)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	data := make([]Student, 0, len(students))
	for _, student := range students {
		data = append(data, newStudent(c, student))
	}

	c.JSON(http.StatusOK, StudentListResponse{
		Data: data,
		Pagination: Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get student
// @Description	Returns a specific student
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentResponse
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [get]
func GetStudent(c *gin.Context) {
	student, ok := getResource[models.Student](c, "FeeConfigurations")
	if !ok {
		return
	}

	data := newStudent(c, student)
	c.JSON(http.StatusOK, StudentResponse{Data: &data})
}

// @Summary		Update student
// @Description	Update an existing student. Only values to be updated need to be specified. If feeConfigurationIds is set, it replaces all fee configurations of the student.
// @Tags			Students
// @Accept			json
// @Produce		json
// @Success		200		{object}	StudentResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			student	body		StudentEditable	true	"Student"
// @Router			/v1/students/{id} [patch]
func UpdateStudent(c *gin.Context) {
	student, ok := getResource[models.Student](c, "FeeConfigurations")
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, StudentEditable{})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	var data StudentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	// The association is not a column and is replaced separately
	replace := slices.Contains(updateFields, any("FeeConfigurationIDs"))
	columns := make([]any, 0, len(updateFields))
	for _, field := range updateFields {
		if field != "FeeConfigurationIDs" {
			columns = append(columns, field)
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			err := tx.Model(&student).Select("", columns...).Updates(data.model()).Error
			if err != nil {
				return err
			}
		}

		if replace {
			return setFeeConfigurations(tx, &student, data.FeeConfigurationIDs)
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	r := newStudent(c, student)
	c.JSON(http.StatusOK, StudentResponse{Data: &r})
}

// @Summary		Delete student
// @Description	Deletes a student. Their payments are kept.
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		404	{object}	httperrors.HTTPError
// @Failure		500	{object}	httperrors.HTTPError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/students/{id} [delete]
func DeleteStudent(c *gin.Context) {
	student, ok := getResource[models.Student](c)
	if !ok {
		return
	}

	err := models.DB.Select("FeeConfigurations").Delete(&student).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get student statement
// @Description	Returns the debt rows of the student for every tranche of their fee configurations
// @Tags			Students
// @Produce		json
// @Success		200		{object}	StatementResponse
// @Failure		400		{object}	httperrors.HTTPError
// @Failure		404		{object}	httperrors.HTTPError
// @Failure		500		{object}	httperrors.HTTPError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			today	query		string	false	"Compute the state for this day, YYYY-MM-DD. Defaults to the current day."
// @Router			/v1/students/{id}/statement [get]
func GetStudentStatement(c *gin.Context) {
	student, ok := getResource[models.Student](c)
	if !ok {
		return
	}

	day, err := httputil.DateFromString(c.Query("today"))
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	if day.IsZero() {
		day = today()
	}

	statement, err := recovery.StudentStatement(models.DB, student.ID, day)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	c.JSON(http.StatusOK, StatementResponse{Data: newStatement(c, statement)})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students/import [options]
func OptionsStudentImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import students
// @Description	Creates the students of a roster file and binds them to the fee configurations. Students whose matricule already exists are skipped.
// @Tags			Students
// @Accept			multipart/form-data
// @Produce		json
// @Success		201					{object}	StudentImportResponse
// @Failure		400					{object}	httperrors.HTTPError
// @Failure		500					{object}	httperrors.HTTPError
// @Param			file				formData	file		true	"Roster as .csv or .xlsx file. Columns: matricule, last name, first name, class, email, guardian email"
// @Param			feeConfiguration	query		[]string	false	"ID of a fee configuration to bind the students to. Can be repeated"
// @Router			/v1/students/import [post]
func ImportStudents(c *gin.Context) {
	ids := make([]uuid.UUID, 0)
	for _, s := range c.QueryArray("feeConfiguration") {
		id, err := httputil.UUIDFromString(s)
		if err != nil {
			c.JSON(status(err), httperrors.New(err))
			return
		}
		ids = append(ids, id)
	}

	formFile, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(errNoFilePost))
		return
	}

	f, err := formFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}
	defer f.Close()

	students, err := importer.Parse(f, strings.TrimSpace(formFile.Filename))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(err))
		return
	}

	result, err := importer.Create(models.DB, students, ids)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return
	}

	created := make([]Student, 0, len(result.Created))
	for _, student := range result.Created {
		created = append(created, newStudent(c, student))
	}

	c.JSON(http.StatusCreated, StudentImportResponse{Data: StudentImport{Created: created, Skipped: result.Skipped}})
}
