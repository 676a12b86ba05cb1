package controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"aiacademy/backend/middleware"
	"aiacademy/backend/services"
	"aiacademy/backend/utils"
)

type CoursesController struct {
	Courses *services.CourseService
	Logger  *log.Logger
}

func NewCoursesController(courses *services.CourseService, logger *log.Logger) *CoursesController {
	return &CoursesController{Courses: courses, Logger: logger}
}

// GetAllCourses godoc
// @Summary List courses
// @Description Returns every course with its document id
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) GetAllCourses(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	courses, err := cc.Courses.List(c.Context())
	if err != nil {
		cc.Logger.Printf("list courses failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(courses)
}

// GetCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	course, err := cc.Courses.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(course)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Requires title, description, author and duration
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var course map[string]interface{}
	if err := c.BodyParser(&course); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	created, err := cc.Courses.Create(c.Context(), ident.UID, course)
	if err != nil {
		cc.Logger.Printf("create course failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(created)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	courseID := c.Params("id")

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := cc.Courses.Update(c.Context(), ident.UID, courseID, fields); err != nil {
		cc.Logger.Printf("update course %s failed for user %s: %v", courseID, ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Course %s updated successfully", courseID)})
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	courseID := c.Params("id")

	if err := cc.Courses.Delete(c.Context(), courseID); err != nil {
		cc.Logger.Printf("delete course %s failed for user %s: %v", courseID, ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Course %s deleted successfully", courseID)})
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Idempotent; a second enroll reports "already enrolled"
// @Tags enrollments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	courseID := c.Params("id")

	already, err := cc.Courses.Enroll(c.Context(), ident.UID, courseID)
	if err != nil {
		cc.Logger.Printf("enroll in course %s failed for user %s: %v", courseID, ident.UID, err)
		return utils.FromError(c, err)
	}
	if already {
		return c.JSON(fiber.Map{"message": "Already enrolled in this course"})
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Successfully enrolled in course %s", courseID)})
}

// UpdateProgress godoc
// @Summary Update course progress
// @Description Progress must be a number within [0,100]
// @Tags enrollments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [put]
func (cc *CoursesController) UpdateProgress(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	courseID := c.Params("id")

	var input struct {
		Progress  interface{} `json:"progress"`
		Completed bool        `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := cc.Courses.UpdateProgress(c.Context(), ident.UID, courseID, input.Progress, input.Completed); err != nil {
		cc.Logger.Printf("update progress in course %s failed for user %s: %v", courseID, ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Progress updated to %v%%", input.Progress)})
}

// GetEnrollments godoc
// @Summary List the user's enrollments
// @Description Joins each enrollment to its course; enrollments whose course was deleted are skipped
// @Tags enrollments
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /enrollments [get]
func (cc *CoursesController) GetEnrollments(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	enrollments, err := cc.Courses.ListEnrollments(c.Context(), ident.UID)
	if err != nil {
		cc.Logger.Printf("list enrollments failed for user %s: %v", ident.UID, err)
		return utils.FromError(c, err)
	}

	return c.JSON(enrollments)
}
